// Package domain contains the core business entities, value objects, and
// domain rules of the task board: users, boards, their members and roles,
// lists, and the card summaries shown inside lists. It is independent of
// any specific infrastructure or delivery mechanism.
package domain
