// Package generation issues the system-generated parts of a debit card: the
// primary account number and the expiration date.
//
// CardIssuer is the boundary between the card service and the number source.
// LuhnIssuer draws random digits behind a network prefix and appends a Luhn
// check digit.
package generation
