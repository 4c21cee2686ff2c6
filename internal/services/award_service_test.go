package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/japanesestudent/achievement-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockCatalogRepository is a mock implementation of MilestoneCatalogRepository
// and ClaimMilestoneRepository
type mockCatalogRepository struct {
	milestones []models.Milestone
	err        error
}

func (m *mockCatalogRepository) GetAll(ctx context.Context) ([]models.Milestone, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.milestones, nil
}

func (m *mockCatalogRepository) GetByID(ctx context.Context, milestoneID string) (*models.Milestone, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.milestones {
		if m.milestones[i].ID == milestoneID {
			return &m.milestones[i], nil
		}
	}
	return nil, nil
}

// mockAwardRepository is a mock implementation of AwardRepository.
// Create enforces the (user, milestone) unique key under a mutex so
// concurrent evaluation tests behave like the real table.
type mockAwardRepository struct {
	mu        sync.Mutex
	earned    map[string]struct{}
	createdBy map[string]struct{}
	earnedErr error
	createErr error
}

func newMockAwardRepository(earnedIDs ...string) *mockAwardRepository {
	earned := make(map[string]struct{})
	for _, id := range earnedIDs {
		earned[id] = struct{}{}
	}
	return &mockAwardRepository{
		earned:    earned,
		createdBy: make(map[string]struct{}),
	}
}

func (m *mockAwardRepository) GetEarnedIDs(ctx context.Context, userID int) (map[string]struct{}, error) {
	if m.earnedErr != nil {
		return nil, m.earnedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	earned := make(map[string]struct{}, len(m.earned))
	for id := range m.earned {
		earned[id] = struct{}{}
	}
	return earned, nil
}

func (m *mockAwardRepository) Create(ctx context.Context, award *models.UserMilestone) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.earned[award.MilestoneID]; ok {
		return models.ErrAlreadyAwarded
	}
	m.earned[award.MilestoneID] = struct{}{}
	m.createdBy[award.MilestoneID] = struct{}{}
	return nil
}

func (m *mockAwardRepository) createdCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.createdBy)
}

// mockSnapshotBuilder is a mock implementation of SnapshotBuilder
type mockSnapshotBuilder struct {
	snapshot *models.ProgressSnapshot
	err      error
}

func (m *mockSnapshotBuilder) BuildSnapshot(ctx context.Context, userID int) (*models.ProgressSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

// mockNotifier is a mock implementation of Notifier
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockNotifier) Notify(ctx context.Context, userID int, severity, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf("%s: %s", severity, message))
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// testCatalog returns three milestones that are all satisfiable by fullSnapshot
func testCatalog() []models.Milestone {
	return []models.Milestone{
		{
			ID:    "first-steps",
			Title: "First Steps",
			Requirements: []models.Requirement{
				{Kind: models.RequirementLessonsCompleted, Threshold: 1},
			},
		},
		{
			ID:    "identity-established",
			Title: "Identity Established",
			Requirements: []models.Requirement{
				{Kind: models.RequirementProfileComplete, Threshold: 1},
			},
			Reward: &models.Reward{Kind: models.RewardBadge, Description: "Profile badge"},
		},
		{
			ID:    "hiragana-master",
			Title: "Hiragana Master",
			Requirements: []models.Requirement{
				{Kind: models.RequirementCourseCompleted, Threshold: 1, Scope: "hiragana-basics"},
			},
		},
	}
}

func TestNewAwardService(t *testing.T) {
	catalogRepo := &mockCatalogRepository{}
	awardRepo := newMockAwardRepository()
	snapshots := &mockSnapshotBuilder{}
	notifier := &mockNotifier{}

	svc := NewAwardService(catalogRepo, awardRepo, snapshots, notifier, zap.NewNop())

	assert.NotNil(t, svc)
	assert.Equal(t, catalogRepo, svc.milestoneRepo)
	assert.Equal(t, awardRepo, svc.awardRepo)
	assert.Equal(t, snapshots, svc.snapshots)
	assert.Equal(t, notifier, svc.notifier)
}

func TestAwardService_Evaluate(t *testing.T) {
	tests := []struct {
		name            string
		catalogRepo     *mockCatalogRepository
		awardRepo       *mockAwardRepository
		snapshots       *mockSnapshotBuilder
		expectedError   bool
		expectedAwarded string
		expectedCreated int
	}{
		{
			name:            "awards first satisfied milestone only",
			catalogRepo:     &mockCatalogRepository{milestones: testCatalog()},
			awardRepo:       newMockAwardRepository(),
			snapshots:       &mockSnapshotBuilder{snapshot: fullSnapshot()},
			expectedAwarded: "first-steps",
			expectedCreated: 1,
		},
		{
			name:            "skips already earned milestones",
			catalogRepo:     &mockCatalogRepository{milestones: testCatalog()},
			awardRepo:       newMockAwardRepository("first-steps"),
			snapshots:       &mockSnapshotBuilder{snapshot: fullSnapshot()},
			expectedAwarded: "identity-established",
			expectedCreated: 1,
		},
		{
			name:        "no satisfied milestone awards nothing",
			catalogRepo: &mockCatalogRepository{milestones: testCatalog()},
			awardRepo:   newMockAwardRepository(),
			snapshots: &mockSnapshotBuilder{snapshot: &models.ProgressSnapshot{
				ProfileFields: map[string]bool{"username": true, "email": false},
			}},
			expectedAwarded: "",
			expectedCreated: 0,
		},
		{
			name: "partially satisfied AND requirements award nothing",
			catalogRepo: &mockCatalogRepository{milestones: []models.Milestone{
				{
					ID:    "well-rounded",
					Title: "Well Rounded",
					Requirements: []models.Requirement{
						{Kind: models.RequirementLessonsCompleted, Threshold: 3},
						{Kind: models.RequirementProfileComplete, Threshold: 1},
					},
				},
			}},
			awardRepo: newMockAwardRepository(),
			snapshots: &mockSnapshotBuilder{snapshot: &models.ProgressSnapshot{
				CompletedLessons: 5,
				ProfileFields:    map[string]bool{"username": true, "email": false},
			}},
			expectedAwarded: "",
			expectedCreated: 0,
		},
		{
			name:          "earned set read failure aborts the pass",
			catalogRepo:   &mockCatalogRepository{milestones: testCatalog()},
			awardRepo:     &mockAwardRepository{earnedErr: errors.New("database error")},
			snapshots:     &mockSnapshotBuilder{snapshot: fullSnapshot()},
			expectedError: true,
		},
		{
			name:          "catalog read failure aborts the pass",
			catalogRepo:   &mockCatalogRepository{err: errors.New("database error")},
			awardRepo:     newMockAwardRepository(),
			snapshots:     &mockSnapshotBuilder{snapshot: fullSnapshot()},
			expectedError: true,
		},
		{
			name:          "snapshot build failure aborts the pass",
			catalogRepo:   &mockCatalogRepository{milestones: testCatalog()},
			awardRepo:     newMockAwardRepository(),
			snapshots:     &mockSnapshotBuilder{err: errors.New("database error")},
			expectedError: true,
		},
		{
			name:          "persist failure is surfaced",
			catalogRepo:   &mockCatalogRepository{milestones: testCatalog()},
			awardRepo:     &mockAwardRepository{earned: map[string]struct{}{}, createdBy: map[string]struct{}{}, createErr: errors.New("database error")},
			snapshots:     &mockSnapshotBuilder{snapshot: fullSnapshot()},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &mockNotifier{}
			svc := NewAwardService(tt.catalogRepo, tt.awardRepo, tt.snapshots, notifier, zap.NewNop())

			awarded, err := svc.Evaluate(context.Background(), 1)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, awarded)
				return
			}

			assert.NoError(t, err)
			if tt.expectedAwarded == "" {
				assert.Nil(t, awarded)
				assert.Zero(t, notifier.count())
			} else {
				require.NotNil(t, awarded)
				assert.Equal(t, tt.expectedAwarded, awarded.ID)
				assert.Equal(t, 1, notifier.count())
			}
			assert.Equal(t, tt.expectedCreated, tt.awardRepo.createdCount())
		})
	}
}

func TestAwardService_Evaluate_ConflictIsBenign(t *testing.T) {
	// The repository reports the row already exists: another pass won the race
	awardRepo := newMockAwardRepository()
	awardRepo.createErr = models.ErrAlreadyAwarded
	catalogRepo := &mockCatalogRepository{milestones: testCatalog()}
	snapshots := &mockSnapshotBuilder{snapshot: fullSnapshot()}
	notifier := &mockNotifier{}

	svc := NewAwardService(catalogRepo, awardRepo, snapshots, notifier, zap.NewNop())

	awarded, err := svc.Evaluate(context.Background(), 1)

	assert.NoError(t, err)
	assert.Nil(t, awarded)
	assert.Zero(t, notifier.count())
}

func TestAwardService_Evaluate_OneAwardPerPass(t *testing.T) {
	// All three milestones are satisfiable; each pass awards exactly one,
	// in catalog order
	awardRepo := newMockAwardRepository()
	catalogRepo := &mockCatalogRepository{milestones: testCatalog()}
	snapshots := &mockSnapshotBuilder{snapshot: fullSnapshot()}

	svc := NewAwardService(catalogRepo, awardRepo, snapshots, &mockNotifier{}, zap.NewNop())

	expectedOrder := []string{"first-steps", "identity-established", "hiragana-master"}
	for i, expected := range expectedOrder {
		awarded, err := svc.Evaluate(context.Background(), 1)

		require.NoError(t, err)
		require.NotNil(t, awarded)
		assert.Equal(t, expected, awarded.ID)
		assert.Equal(t, i+1, awardRepo.createdCount())
	}

	// Everything earned now; a further pass awards nothing
	awarded, err := svc.Evaluate(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, awarded)
	assert.Equal(t, len(expectedOrder), awardRepo.createdCount())
}

func TestAwardService_Evaluate_ConcurrentPassesAwardOnce(t *testing.T) {
	// N concurrent passes while one milestone is newly satisfiable must
	// produce exactly one persisted award; losers see a benign no-op
	catalog := []models.Milestone{
		{
			ID:    "identity-established",
			Title: "Identity Established",
			Requirements: []models.Requirement{
				{Kind: models.RequirementProfileComplete, Threshold: 1},
			},
		},
	}
	awardRepo := newMockAwardRepository()
	catalogRepo := &mockCatalogRepository{milestones: catalog}
	snapshots := &mockSnapshotBuilder{snapshot: fullSnapshot()}

	svc := NewAwardService(catalogRepo, awardRepo, snapshots, &mockNotifier{}, zap.NewNop())

	const passes = 16
	var wg sync.WaitGroup
	awardedCh := make(chan *models.Milestone, passes)
	errCh := make(chan error, passes)

	for i := 0; i < passes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			awarded, err := svc.Evaluate(context.Background(), 1)
			awardedCh <- awarded
			errCh <- err
		}()
	}
	wg.Wait()
	close(awardedCh)
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}

	awardedCount := 0
	for awarded := range awardedCh {
		if awarded != nil {
			awardedCount += 1
		}
	}

	assert.Equal(t, 1, awardedCount)
	assert.Equal(t, 1, awardRepo.createdCount())
}
