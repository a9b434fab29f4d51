package controller

import (
	m "github.com/flatgrass/retouch/internal/model"
)

// List item types.
type resultItem struct {
	result m.FileResult
}

func (r resultItem) FilterValue() string {
	return string(r.result.Path)
}
