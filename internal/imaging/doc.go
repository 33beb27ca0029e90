// Package imaging normalizes screenshot pairs for comparison and produces
// the transparent red-highlight diff mask handed to the vision oracle.
//
// Differently-sized screenshots are padded onto a shared white canvas
// rather than scaled, preserving pixel geometry at the cost of misalignment
// when content shifts instead of growing.
package imaging
