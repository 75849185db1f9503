// Package index builds the read-only minimizer index that queries are mapped
// against, and shares it between goroutines through reference-counted Handles.
//
// An Index is immutable once Build, Load or FromStream returns: lookups need no
// locking. Only the Handle reference count is synchronized.
package index
