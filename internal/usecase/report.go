package usecase

import (
	"fmt"
	"sort"
	"strings"

	"tubedigest/internal/domain"
)

// FormatReport renders the end-of-run summary line, e.g.
// "processed 3, skipped 2 (transcript unavailable: 2)".
func FormatReport(report *domain.RunReport) string {
	if report.TotalSkipped() == 0 {
		return fmt.Sprintf("processed %d, skipped 0", report.Processed)
	}

	reasons := make([]string, 0, len(report.Skipped))
	for reason := range report.Skipped {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s: %d", reason, report.Skipped[domain.SkipReason(reason)]))
	}
	return fmt.Sprintf("processed %d, skipped %d (%s)",
		report.Processed, report.TotalSkipped(), strings.Join(parts, ", "))
}
