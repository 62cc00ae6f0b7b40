package git

import "context"

// Compile-time check that MockRepository implements Repository.
var _ Repository = (*MockRepository)(nil)

// MockRepository is a configurable mock implementation of Repository for
// testing. Each method is backed by a function field. If the function field
// is nil, the method returns sensible zero values.
type MockRepository struct {
	PathFunc                 func() string
	WorkingDirectoryFunc     func() string
	HeadFunc                 func() (Branch, error)
	HasReferenceFunc         func(string) (bool, error)
	ReferenceShaFunc         func(string) (string, error)
	SetReferenceFunc         func(string, string) error
	RemoveReferenceFunc      func(string) error
	ReferencesWithPrefixFunc func(string) ([]string, error)
	CreateRemoteFunc         func(string, string) error
	RemoveRemoteFunc         func(string) error
	ListRemoteFunc           func(context.Context, string) (RemoteState, error)
	FetchFunc                func(context.Context, string, []string) error
	CommitFromShaFunc        func(string) (Commit, error)
	PeelToCommitFunc         func(string) (string, error)
	RelocateCommitFunc       func(string, string) (string, error)
}

func (m *MockRepository) Path() string {
	if m.PathFunc != nil {
		return m.PathFunc()
	}
	return ""
}

func (m *MockRepository) WorkingDirectory() string {
	if m.WorkingDirectoryFunc != nil {
		return m.WorkingDirectoryFunc()
	}
	return ""
}

func (m *MockRepository) Head() (Branch, error) {
	if m.HeadFunc != nil {
		return m.HeadFunc()
	}
	return Branch{}, nil
}

func (m *MockRepository) HasReference(name string) (bool, error) {
	if m.HasReferenceFunc != nil {
		return m.HasReferenceFunc(name)
	}
	return false, nil
}

func (m *MockRepository) ReferenceSha(name string) (string, error) {
	if m.ReferenceShaFunc != nil {
		return m.ReferenceShaFunc(name)
	}
	return "", nil
}

func (m *MockRepository) SetReference(name, sha string) error {
	if m.SetReferenceFunc != nil {
		return m.SetReferenceFunc(name, sha)
	}
	return nil
}

func (m *MockRepository) RemoveReference(name string) error {
	if m.RemoveReferenceFunc != nil {
		return m.RemoveReferenceFunc(name)
	}
	return nil
}

func (m *MockRepository) ReferencesWithPrefix(prefix string) ([]string, error) {
	if m.ReferencesWithPrefixFunc != nil {
		return m.ReferencesWithPrefixFunc(prefix)
	}
	return nil, nil
}

func (m *MockRepository) CreateRemote(name, url string) error {
	if m.CreateRemoteFunc != nil {
		return m.CreateRemoteFunc(name, url)
	}
	return nil
}

func (m *MockRepository) RemoveRemote(name string) error {
	if m.RemoveRemoteFunc != nil {
		return m.RemoveRemoteFunc(name)
	}
	return nil
}

func (m *MockRepository) ListRemote(ctx context.Context, name string) (RemoteState, error) {
	if m.ListRemoteFunc != nil {
		return m.ListRemoteFunc(ctx, name)
	}
	return RemoteState{}, nil
}

func (m *MockRepository) Fetch(ctx context.Context, remote string, refspecs []string) error {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, remote, refspecs)
	}
	return nil
}

func (m *MockRepository) CommitFromSha(sha string) (Commit, error) {
	if m.CommitFromShaFunc != nil {
		return m.CommitFromShaFunc(sha)
	}
	return Commit{}, nil
}

func (m *MockRepository) PeelToCommit(sha string) (string, error) {
	if m.PeelToCommitFunc != nil {
		return m.PeelToCommitFunc(sha)
	}
	return sha, nil
}

func (m *MockRepository) RelocateCommit(sha, subdir string) (string, error) {
	if m.RelocateCommitFunc != nil {
		return m.RelocateCommitFunc(sha, subdir)
	}
	return sha, nil
}
