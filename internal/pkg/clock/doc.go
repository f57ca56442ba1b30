// Package clock abstracts the time source so OTP expiry and token lifetimes
// can be tested against a fixed instant instead of the wall clock.
package clock
