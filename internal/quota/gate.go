// Package quota decides, before any transfer starts, whether a set of files may
// be uploaded into a project under the owner's plan.
package quota

import (
	"fmt"
	"math"
	"time"

	"cutroom/internal/model"
)

// FileInfo describes a candidate file picked for upload.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Result is the outcome of ValidateFiles. Warnings never affect Valid.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Status is the upload availability for a project at a given usage.
type Status struct {
	CanUpload  bool   `json:"can_upload"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

const (
	warnPercent       = 80
	freeNearPercent   = 90
	suggestUpgradeMsg = "Upgrade to Lite or Pro for more storage"
	suggestCleanupMsg = "Upgrade your storage or delete unused files to continue uploading"
)

// Gate holds the limits derived from a subscription.
type Gate struct {
	IsActive      bool
	PlanName      string
	MaxUploadSize int64
	MaxStorage    int64
}

// New derives the gate for sub, which may be nil. now decides whether the
// current billing period is still running.
func New(sub *model.Subscription, limits Limits, now time.Time) *Gate {
	g := &Gate{PlanName: "Free", MaxUploadSize: limits.FreeMaxUpload, MaxStorage: limits.DefaultStorage}
	g.IsActive = sub != nil && sub.Status == model.SubscriptionStatusActive && sub.CurrentPeriodEnd.After(now)
	if !g.IsActive {
		return g
	}

	switch sub.PlanID {
	case model.PlanLite:
		g.PlanName = "Lite"
		g.MaxUploadSize = limits.LiteMaxUpload
	case model.PlanPro:
		g.PlanName = "Pro"
		g.MaxUploadSize = limits.ProMaxUpload
	}
	if sub.MaxUploadSizeMB != nil {
		g.MaxUploadSize = *sub.MaxUploadSizeMB * MiB
	}
	if sub.StorageGB != nil {
		g.MaxStorage = *sub.StorageGB * GiB
	}
	return g
}

// UsagePercent is currentUsage as a share of MaxStorage. A gate without any
// storage counts as full.
func (g *Gate) UsagePercent(currentUsage int64) float64 {
	if g.MaxStorage <= 0 {
		return 100
	}
	return 100 * float64(currentUsage) / float64(g.MaxStorage)
}

// ValidateFiles checks each file against the per-file limit, the batch against
// remaining storage, and warns when the upload lands between 80% and 100%.
func (g *Gate) ValidateFiles(files []FileInfo, currentUsage int64) Result {
	res := Result{Errors: []string{}, Warnings: []string{}}

	var total int64
	for _, f := range files {
		if f.Size > g.MaxUploadSize {
			res.Errors = append(res.Errors, fmt.Sprintf("%s (%s) exceeds the %s plan limit of %s per file",
				f.Name, FormatBytes(f.Size), g.PlanName, FormatBytes(g.MaxUploadSize)))
		}
		total += f.Size
	}

	remaining := g.MaxStorage - currentUsage
	if g.MaxStorage <= 0 {
		remaining = 0
	}
	if remaining < total {
		res.Errors = append(res.Errors, fmt.Sprintf("Upload size (%s) exceeds remaining storage (%s)",
			FormatBytes(total), FormatBytes(max(remaining, 0))))
	}

	newPercent := g.UsagePercent(currentUsage + total)
	if newPercent > warnPercent && newPercent < 100 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("This upload will bring storage usage to %d%%",
			int(math.Floor(newPercent+0.5))))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func (g *Gate) CanUploadFiles(files []FileInfo, currentUsage int64) bool {
	return g.ValidateFiles(files, currentUsage).Valid
}

// UploadStatus reports whether uploads are open at the given usage percentage.
func (g *Gate) UploadStatus(currentUsagePercent float64) Status {
	used := FormatBytes(int64(currentUsagePercent * float64(g.MaxStorage) / 100))
	limit := FormatBytes(g.MaxStorage)

	if currentUsagePercent >= 100 {
		st := Status{
			CanUpload:  false,
			Reason:     fmt.Sprintf("Storage limit reached (%s of %s used)", used, limit),
			Suggestion: suggestUpgradeMsg,
		}
		if g.IsActive {
			st.Suggestion = suggestCleanupMsg
		}
		return st
	}
	if !g.IsActive && currentUsagePercent > freeNearPercent {
		return Status{
			CanUpload:  true,
			Reason:     fmt.Sprintf("You are approaching the Free plan storage limit (%s of %s used)", used, limit),
			Suggestion: suggestUpgradeMsg,
		}
	}
	return Status{CanUpload: true}
}
