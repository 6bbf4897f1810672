// Package profile serves the signed-in user's own profile: contact phone and
// a small address book.
package profile
