// Package audit scans staged changes for leaked credentials before they
// reach a commit. Detection is backed by the Gitleaks ruleset; findings
// carry rule and location only, never the matched secret itself.
package audit

import (
	"fmt"

	"github.com/zricethezav/gitleaks/v8/detect"
	"go.uber.org/zap"
)

// Finding is one detected secret. The secret value is deliberately not
// retained.
type Finding struct {
	RuleID      string
	Description string
	Line        int
}

// Scanner runs secret detection over diff text.
type Scanner struct {
	detector *detect.Detector
	logger   *zap.Logger
}

// NewScanner creates a scanner with the default Gitleaks ruleset.
func NewScanner(logger *zap.Logger) (*Scanner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("loading secret detection rules: %w", err)
	}
	return &Scanner{detector: detector, logger: logger}, nil
}

// Scan reports secrets found in content.
func (s *Scanner) Scan(content string) []Finding {
	raw := s.detector.DetectString(content)

	findings := make([]Finding, 0, len(raw))
	for _, f := range raw {
		findings = append(findings, Finding{
			RuleID:      f.RuleID,
			Description: f.Description,
			Line:        f.StartLine,
		})
	}
	if len(findings) > 0 {
		s.logger.Warn("secrets detected", zap.Int("count", len(findings)))
	}
	return findings
}
