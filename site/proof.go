package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hardcover-dash/dashboard"
)

// Proof is the small build fingerprint written next to the page. It
// distinguishes "the page is genuinely unchanged" from "the build never
// ran" when the deployed dashboard looks stale.
type Proof struct {
	BuildStampUTC         string  `json:"build_stamp_utc"`
	Username              string  `json:"username"`
	CurrentlyReadingCount int     `json:"currently_reading_count"`
	FirstCurrentTitle     *string `json:"first_current_title"`
	FirstCurrentProgress  *int    `json:"first_current_progress"`
	FirstCurrentPct       *int    `json:"first_current_pct"`
}

// NewProof derives the proof from the view model.
func NewProof(vm *dashboard.ViewModel) Proof {
	p := Proof{
		BuildStampUTC:         vm.BuildStamp,
		Username:              vm.Me.Username,
		CurrentlyReadingCount: len(vm.Currently),
	}
	if len(vm.Currently) > 0 {
		first := vm.Currently[0]
		p.FirstCurrentTitle = &first.Title
		p.FirstCurrentProgress = &first.Progress
		p.FirstCurrentPct = first.Pct
	}
	return p
}

// WriteProof writes <outDir>/build.json.
func WriteProof(outDir string, p Proof) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode proof: %w", err)
	}
	return os.WriteFile(filepath.Join(outDir, "build.json"), data, 0o644)
}
