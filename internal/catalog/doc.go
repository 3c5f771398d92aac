// Package catalog holds the pure operations on the URL record set:
// merging incoming batches, classifying records by URL shape, and
// projecting ranked views. Nothing here performs I/O.
package catalog
