// Package cli implements the central, peripheral and demo commands on top of
// the layerdisplay facade.
package cli
