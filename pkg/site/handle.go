package site

import (
	"strconv"

	"github.com/gosimple/slug"
)

const (
	fallbackHandle = "untitled"
	maxHandleTries = 1000
)

// Handle turns a title or user supplied handle into a URL-safe path segment.
func Handle(s string) string {
	h := slug.Make(s)
	if h == "" {
		return fallbackHandle
	}
	return h
}

// UniqueHandle returns Handle(s), suffixed with -2, -3, ... until taken
// reports it free.
func UniqueHandle(s string, taken func(string) (bool, error)) (string, error) {
	base := Handle(s)
	candidate := base
	for i := 2; i <= maxHandleTries; i++ {
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", ErrHandleExhausted
}
