// Package service contains the application use cases: issuing and managing
// debit cards on behalf of their owner, and registering users.
//
// Services receive their repositories, the card issuer and a logger through
// constructor injection. Every card operation takes the caller's user ID
// explicitly and refuses to act on cards owned by anyone else. Operations
// that read and then write a card run inside a single database transaction
// with the card row locked.
//
// Expected failures are returned as sentinel errors (ErrNotOwned,
// ErrCardHasTransactions, store.ErrDebitCardNotFound) wrapped in a
// *DebitCardServiceError, so callers match them with errors.Is.
package service
