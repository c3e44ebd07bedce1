package quota

import (
	"testing"
	"time"

	"cutroom/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func int64p(v int64) *int64 { return &v }

func activeSub(plan string) *model.Subscription {
	return &model.Subscription{
		PlanID:           plan,
		Status:           model.SubscriptionStatusActive,
		CurrentPeriodEnd: now.Add(24 * time.Hour),
	}
}

func TestNewGate(t *testing.T) {
	limits := DefaultLimits()

	t.Run("no subscription", func(t *testing.T) {
		g := New(nil, limits, now)
		assert.False(t, g.IsActive)
		assert.Equal(t, "Free", g.PlanName)
		assert.Equal(t, 200*MiB, g.MaxUploadSize)
		assert.Equal(t, 500*MiB, g.MaxStorage)
	})

	t.Run("active lite without overrides", func(t *testing.T) {
		g := New(activeSub(model.PlanLite), limits, now)
		assert.True(t, g.IsActive)
		assert.Equal(t, "Lite", g.PlanName)
		assert.Equal(t, 2*GiB, g.MaxUploadSize)
		assert.Equal(t, 500*MiB, g.MaxStorage)
	})

	t.Run("active pro with overrides", func(t *testing.T) {
		sub := activeSub(model.PlanPro)
		sub.StorageGB = int64p(100)
		sub.MaxUploadSizeMB = int64p(8000)
		g := New(sub, limits, now)
		assert.Equal(t, "Pro", g.PlanName)
		assert.Equal(t, 8000*MiB, g.MaxUploadSize)
		assert.Equal(t, 100*GiB, g.MaxStorage)
	})

	t.Run("expired period falls back to free", func(t *testing.T) {
		sub := activeSub(model.PlanPro)
		sub.CurrentPeriodEnd = now.Add(-time.Minute)
		sub.StorageGB = int64p(100)
		g := New(sub, limits, now)
		assert.False(t, g.IsActive)
		assert.Equal(t, "Free", g.PlanName)
		assert.Equal(t, 200*MiB, g.MaxUploadSize)
		assert.Equal(t, 500*MiB, g.MaxStorage)
	})

	t.Run("cancelled status is not active", func(t *testing.T) {
		sub := activeSub(model.PlanLite)
		sub.Status = "cancelled"
		assert.False(t, New(sub, limits, now).IsActive)
	})

	t.Run("active free plan keeps the free name", func(t *testing.T) {
		g := New(activeSub(model.PlanFree), limits, now)
		assert.True(t, g.IsActive)
		assert.Equal(t, "Free", g.PlanName)
	})
}

func TestValidateFilesOversizedFile(t *testing.T) {
	g := New(nil, DefaultLimits(), now)
	res := g.ValidateFiles([]FileInfo{{Name: "cut.mov", Size: 250 * MiB}}, 0)

	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "200")
	assert.Contains(t, res.Errors[0], "Free")
	assert.Equal(t, "cut.mov (250 MB) exceeds the Free plan limit of 200 MB per file", res.Errors[0])
	assert.Empty(t, res.Warnings)
}

func TestValidateFilesEachOversizedFileReported(t *testing.T) {
	g := New(nil, DefaultLimits(), now)
	res := g.ValidateFiles([]FileInfo{
		{Name: "a.mov", Size: 300 * MiB},
		{Name: "b.mov", Size: 10 * MiB},
		{Name: "c.mov", Size: 201 * MiB},
	}, 0)

	require.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[0], "a.mov")
	assert.Contains(t, res.Errors[1], "c.mov")
	assert.Equal(t, "Upload size (511 MB) exceeds remaining storage (500 MB)", res.Errors[2])
}

func TestValidateFilesWarnsNearLimit(t *testing.T) {
	g := New(nil, DefaultLimits(), now)
	res := g.ValidateFiles([]FileInfo{{Name: "b-roll.mp4", Size: 40 * MiB}}, 450*MiB)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "98")
	assert.Equal(t, "This upload will bring storage usage to 98%", res.Warnings[0])
}

func TestValidateFilesStorageBoundaries(t *testing.T) {
	g := New(nil, DefaultLimits(), now)

	exact := g.ValidateFiles([]FileInfo{{Name: "a", Size: 50 * MiB}}, 450*MiB)
	assert.True(t, exact.Valid, "filling storage exactly is allowed")
	assert.Empty(t, exact.Warnings, "100% is not a warning")

	over := g.ValidateFiles([]FileInfo{{Name: "a", Size: 50*MiB + 1}}, 450*MiB)
	assert.False(t, over.Valid)
	assert.Equal(t, []string{"Upload size (50 MB) exceeds remaining storage (50 MB)"}, over.Errors)

	at80 := g.ValidateFiles([]FileInfo{{Name: "a", Size: 400 * MiB}}, 0)
	assert.True(t, at80.Valid)
	assert.Empty(t, at80.Warnings, "exactly 80% does not warn")

	alreadyOver := g.ValidateFiles([]FileInfo{{Name: "a", Size: 1}}, 600*MiB)
	assert.Equal(t, []string{"Upload size (1 Bytes) exceeds remaining storage (0 Bytes)"}, alreadyOver.Errors)
}

func TestValidateFilesEmptySelection(t *testing.T) {
	g := New(nil, DefaultLimits(), now)
	res := g.ValidateFiles(nil, 0)
	assert.True(t, res.Valid)
	assert.NotNil(t, res.Errors)
	assert.NotNil(t, res.Warnings)
}

// Zero storage is treated as a full quota rather than dividing by zero.
func TestValidateFilesZeroStorage(t *testing.T) {
	limits := DefaultLimits()
	limits.DefaultStorage = 0
	g := New(nil, limits, now)

	assert.Equal(t, float64(100), g.UsagePercent(0))
	res := g.ValidateFiles([]FileInfo{{Name: "a", Size: 1024}}, 0)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Upload size (1 KB) exceeds remaining storage (0 Bytes)"}, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.False(t, g.UploadStatus(g.UsagePercent(0)).CanUpload)
}

func TestValidateFilesIsPure(t *testing.T) {
	g := New(activeSub(model.PlanLite), DefaultLimits(), now)
	files := []FileInfo{{Name: "a", Size: 300 * MiB}, {Name: "b", Size: 120 * MiB}}
	first := g.ValidateFiles(files, 10*MiB)
	second := g.ValidateFiles(files, 10*MiB)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Valid, g.CanUploadFiles(files, 10*MiB))
}

func TestCanUploadFiles(t *testing.T) {
	g := New(activeSub(model.PlanPro), DefaultLimits(), now)
	assert.True(t, g.CanUploadFiles([]FileInfo{{Name: "a", Size: 100 * MiB}}, 0))
	assert.False(t, g.CanUploadFiles([]FileInfo{{Name: "a", Size: 6 * GiB}}, 0))
}

func TestUploadStatus(t *testing.T) {
	free := New(nil, DefaultLimits(), now)

	full := free.UploadStatus(100)
	assert.False(t, full.CanUpload)
	assert.Equal(t, "Storage limit reached (500 MB of 500 MB used)", full.Reason)
	assert.Equal(t, "Upgrade to Lite or Pro for more storage", full.Suggestion)

	near := free.UploadStatus(95)
	assert.True(t, near.CanUpload)
	assert.Equal(t, "You are approaching the Free plan storage limit (475 MB of 500 MB used)", near.Reason)
	assert.Equal(t, "Upgrade to Lite or Pro for more storage", near.Suggestion)

	assert.Equal(t, Status{CanUpload: true}, free.UploadStatus(90))
	assert.Equal(t, Status{CanUpload: true}, free.UploadStatus(10))

	sub := activeSub(model.PlanLite)
	sub.StorageGB = int64p(10)
	paid := New(sub, DefaultLimits(), now)

	paidFull := paid.UploadStatus(110)
	assert.False(t, paidFull.CanUpload)
	assert.Equal(t, "Storage limit reached (11 GB of 10 GB used)", paidFull.Reason)
	assert.Equal(t, "Upgrade your storage or delete unused files to continue uploading", paidFull.Suggestion)

	assert.Equal(t, Status{CanUpload: true}, paid.UploadStatus(95))
}
