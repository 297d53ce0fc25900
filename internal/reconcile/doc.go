// Package reconcile folds an edited free-text buffer back into structured
// items.
//
// Alignment is strictly positional: the n-th exposed item receives the n-th
// buffer line, surplus exposed items are dropped, and surplus lines become
// new items. Content is never compared, so ids, tags and catalog metadata
// survive any rewrite of the text.
package reconcile
