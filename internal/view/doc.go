// Package view projects the library into filtered, sorted listings and
// into the editable text buffer consumed by reconcile.
package view
