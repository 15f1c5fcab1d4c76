// Package route turns per-step candidate lists into ranked multi-stop
// route plans by bounded brute-force enumeration.
package route
