// Package server contains the two transports of the service: the
// line-oriented TCP session server that feeds the dispatcher, and the HTTP
// file server that hands out audio bytes by song id.
package server
