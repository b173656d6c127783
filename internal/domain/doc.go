// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, the debit cards they own, and the
// transactions recorded against those cards. It is independent of any
// specific infrastructure or delivery mechanism.
package domain
