package main

import (
	"verdict/internal/diag"
	"verdict/internal/verify"
)

// mergeFindings собирает per-file мешки в один для вывода.
// Каждый мешок уже отсортирован, порядок файлов сохраняется.
func mergeFindings(result *verify.Result) *diag.Bag {
	total := 0
	for _, fr := range result.Files {
		total += fr.Findings.Len()
	}
	if total == 0 {
		total = 1
	}
	merged := diag.NewBag(total)
	for _, fr := range result.Files {
		merged.Merge(fr.Findings)
	}
	return merged
}
