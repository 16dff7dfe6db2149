package nsapi

import "reflect"

// List helpers used to compute "new since last poll" sets. Items are
// compared by structural equality, matching how the records themselves
// compare.

func containsItem[T any](list []T, item T) bool {
	for _, candidate := range list {
		if reflect.DeepEqual(candidate, item) {
			return true
		}
	}
	return false
}

// Diff returns the items from b that do not appear in a, preserving
// b's order.
func Diff[T any](a []T, b []T) []T {
	result := []T{}
	for _, item := range b {
		if !containsItem(a, item) {
			result = append(result, item)
		}
	}
	return result
}

// Intersect returns the items from b that also appear in a.
func Intersect[T any](a []T, b []T) []T {
	result := []T{}
	for _, item := range b {
		if containsItem(a, item) {
			result = append(result, item)
		}
	}
	return result
}

// Merge combines two lists without duplicating items; a's order first,
// then b's remaining new items.
func Merge[T any](a []T, b []T) []T {
	result := []T{}
	for _, item := range a {
		if !containsItem(result, item) {
			result = append(result, item)
		}
	}
	for _, item := range b {
		if !containsItem(result, item) {
			result = append(result, item)
		}
	}
	return result
}
