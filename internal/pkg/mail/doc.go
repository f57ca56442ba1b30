// Package mail abstracts outbound email delivery.
package mail
