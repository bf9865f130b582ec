// Package evaluator provides schedule value functions.
package evaluator
