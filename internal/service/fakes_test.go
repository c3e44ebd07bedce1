package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cutroom/internal/model"
	"cutroom/internal/repository"
	"cutroom/internal/storage"
)

type fakeProjects map[string]*model.Project

func (f fakeProjects) GetProjectByID(_ context.Context, id string) (*model.Project, error) {
	p, ok := f[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

type fakeTracks struct {
	byID    map[string]*model.ProjectTrack
	order   []string
	created []*model.ProjectTrack
	updated []*model.ProjectTrack
	err     error
}

func newFakeTracks(tracks ...*model.ProjectTrack) *fakeTracks {
	f := &fakeTracks{byID: map[string]*model.ProjectTrack{}}
	for _, t := range tracks {
		f.byID[t.ID] = t
		f.order = append(f.order, t.ID)
	}
	return f
}

func (f *fakeTracks) ListTracksByProject(_ context.Context, projectID string) ([]*model.ProjectTrack, error) {
	out := []*model.ProjectTrack{}
	for _, id := range f.order {
		if t := f.byID[id]; t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTracks) GetTrackByID(_ context.Context, id string) (*model.ProjectTrack, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTracks) CreateTrack(_ context.Context, t *model.ProjectTrack) error {
	if f.err != nil {
		return f.err
	}
	t.ID = fmt.Sprintf("track-%d", len(f.order)+1)
	f.byID[t.ID] = t
	f.order = append(f.order, t.ID)
	f.created = append(f.created, t)
	return nil
}

func (f *fakeTracks) UpdateTrack(_ context.Context, t *model.ProjectTrack) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, t)
	return nil
}

type published struct {
	topic string
	data  []byte
	attrs map[string]string
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, data []byte, attrs map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.msgs = append(f.msgs, published{topic: topic, data: data, attrs: attrs})
	return fmt.Sprintf("msg-%d", len(f.msgs)), nil
}

type fakeMedia struct {
	byID      map[string]*model.Media
	usage     int64
	seq       int
	deleted   []string
	deleteErr error
	failOn    string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{byID: map[string]*model.Media{}}
}

func (f *fakeMedia) CreateMedia(_ context.Context, m *model.Media) error {
	if f.failOn != "" && m.FileName == f.failOn {
		return errors.New("insert failed")
	}
	f.seq++
	m.ID = fmt.Sprintf("media-%d", f.seq)
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMedia) GetMediaByID(_ context.Context, id string) (*model.Media, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMedia) UpdateMedia(_ context.Context, m *model.Media) error {
	if _, ok := f.byID[m.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMedia) DeleteMedia(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeMedia) SumProjectUsage(context.Context, string) (int64, error) {
	return f.usage, nil
}

type fakeSubscriptions map[string]*model.Subscription

func (f fakeSubscriptions) GetSubscription(_ context.Context, userID string) (*model.Subscription, error) {
	return f[userID], nil
}

type fakeStore struct {
	sizes          map[string]int64
	puts           []string
	deletedPrefix  []string
	presignPutErr  error
	lastTTL        time.Duration
	lastPutContent string
	lastPutSize    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{sizes: map[string]int64{}}
}

func (f *fakeStore) PresignPut(_ context.Context, key, contentType string, size int64, ttl time.Duration) (string, error) {
	if f.presignPutErr != nil {
		return "", f.presignPutErr
	}
	f.puts = append(f.puts, key)
	f.lastTTL, f.lastPutContent, f.lastPutSize = ttl, contentType, size
	return "https://storage.test/put/" + key, nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	f.lastTTL = ttl
	return "https://storage.test/get/" + key, nil
}

func (f *fakeStore) Head(_ context.Context, key string) (int64, error) {
	size, ok := f.sizes[key]
	if !ok {
		return 0, storage.ErrObjectNotFound
	}
	return size, nil
}

func (f *fakeStore) DeletePrefix(_ context.Context, prefix string) error {
	f.deletedPrefix = append(f.deletedPrefix, prefix)
	return nil
}

type fakeActivities struct {
	saved []*model.ProjectActivity
	err   error
}

func (f *fakeActivities) Create(_ context.Context, a *model.ProjectActivity) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, a)
	return nil
}
