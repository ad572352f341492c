package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"seatcheck/internal/audit"
	"seatcheck/internal/verification/models"
	"seatcheck/internal/verification/store"
	dErrors "seatcheck/pkg/domain-errors"
)

const testAuditor = "auditor@mcc.nic.in"

// captureTrail records audit events synchronously for assertions.
type captureTrail struct {
	mu     sync.Mutex
	events []audit.Event
}

func (c *captureTrail) Record(_ context.Context, event audit.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureTrail) last() audit.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[len(c.events)-1]
}

type ServiceSuite struct {
	suite.Suite
	store *store.InMemory
	trail *captureTrail
	svc   *Service
	ctx   context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.trail = &captureTrail{}
	s.svc = NewService(s.store, WithAuditTrail(s.trail))
	s.ctx = context.Background()
}

// sampledRecord builds one sampled record and returns its id.
func (s *ServiceSuite) sampledRecord() (int64, *models.ProcessedFile) {
	file := seedPopulationInto(s.store, 10)
	_, err := s.svc.BuildSample(s.ctx, file.ID, 0.1, models.StrategySystematic)
	s.Require().NoError(err)
	views, err := s.svc.ListRecordsForFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	return views[0].ID, file
}

func (s *ServiceSuite) TestSetRecordStatusVerified() {
	id, _ := s.sampledRecord()

	rec, err := s.svc.SetRecordStatus(s.ctx, id, models.StatusVerified, "matches page 12", testAuditor)
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, rec.Status)
	s.Equal("matches page 12", rec.Notes)
	s.Equal(testAuditor, rec.VerifiedBy)
	s.Require().NotNil(rec.VerifiedAt)

	event := s.trail.last()
	s.Equal(audit.ActionRecordVerdict, event.Action)
	s.Equal(testAuditor, event.Actor)
	s.Equal(string(models.StatusVerified), event.Status)
	s.Equal(id, event.RecordID)
}

func (s *ServiceSuite) TestReopenClearsVerifiedAt() {
	id, _ := s.sampledRecord()

	_, err := s.svc.SetRecordStatus(s.ctx, id, models.StatusVerified, "", testAuditor)
	s.Require().NoError(err)

	// The state machine is permissive: any transition is allowed,
	// verified records may be reopened.
	rec, err := s.svc.SetRecordStatus(s.ctx, id, models.StatusPending, "second look", testAuditor)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, rec.Status)
	s.Nil(rec.VerifiedAt)
}

func (s *ServiceSuite) TestRejectedKeepsVerifier() {
	id, _ := s.sampledRecord()

	rec, err := s.svc.SetRecordStatus(s.ctx, id, models.StatusRejected, "rank mismatch", testAuditor)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, rec.Status)
	s.Equal(testAuditor, rec.VerifiedBy)
	// verifiedAt marks successful verification only.
	s.Nil(rec.VerifiedAt)
}

func (s *ServiceSuite) TestSetRecordStatusErrors() {
	id, _ := s.sampledRecord()

	s.Run("unknown record", func() {
		_, err := s.svc.SetRecordStatus(s.ctx, id+999, models.StatusVerified, "", testAuditor)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
	s.Run("invalid status", func() {
		_, err := s.svc.SetRecordStatus(s.ctx, id, models.RecordStatus("approved"), "", testAuditor)
		s.True(dErrors.Is(err, dErrors.CodeInvalidArgument))
	})
}

func (s *ServiceSuite) TestSetFileStatus() {
	_, file := s.sampledRecord()

	updated, err := s.svc.SetFileStatus(s.ctx, file.ID, models.FileStatusVerified, testAuditor)
	s.Require().NoError(err)
	s.Equal(models.FileStatusVerified, updated.Status)
	s.Equal(testAuditor, updated.VerifiedBy)
	s.Require().NotNil(updated.VerifiedAt)

	event := s.trail.last()
	s.Equal(audit.ActionFileGateSet, event.Action)
	s.Equal(file.ID, event.FileID)

	// Gate state is advisory, not terminal: pending reopens it.
	reopened, err := s.svc.SetFileStatus(s.ctx, file.ID, models.FileStatusPending, testAuditor)
	s.Require().NoError(err)
	s.Equal(models.FileStatusPending, reopened.Status)
	s.Nil(reopened.VerifiedAt)
}

func (s *ServiceSuite) TestSetFileStatusErrors() {
	s.Run("unknown file", func() {
		_, err := s.svc.SetFileStatus(s.ctx, 404, models.FileStatusVerified, testAuditor)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
	s.Run("invalid status", func() {
		_, file := s.sampledRecord()
		_, err := s.svc.SetFileStatus(s.ctx, file.ID, models.FileStatus("done"), testAuditor)
		s.True(dErrors.Is(err, dErrors.CodeInvalidArgument))
	})
}

func (s *ServiceSuite) TestListRecordsByStatus() {
	file := seedPopulationInto(s.store, 30)
	_, err := s.svc.BuildSample(s.ctx, file.ID, 0.2, models.StrategySystematic)
	s.Require().NoError(err)

	views, err := s.svc.ListRecordsForFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Require().Len(views, 6)

	_, err = s.svc.SetRecordStatus(s.ctx, views[0].ID, models.StatusVerified, "", testAuditor)
	s.Require().NoError(err)
	_, err = s.svc.SetRecordStatus(s.ctx, views[1].ID, models.StatusRejected, "", testAuditor)
	s.Require().NoError(err)

	pending, err := s.svc.ListRecordsByStatus(s.ctx, models.StatusPending, 0, nil)
	s.Require().NoError(err)
	s.Len(pending, 4)

	verified, err := s.svc.ListRecordsByStatus(s.ctx, models.StatusVerified, 0, nil)
	s.Require().NoError(err)
	s.Require().Len(verified, 1)
	s.Equal(views[0].ID, verified[0].ID)

	s.Run("scoped to file", func() {
		scoped, err := s.svc.ListRecordsByStatus(s.ctx, models.StatusPending, 0, &file.ID)
		s.Require().NoError(err)
		s.Len(scoped, 4)

		other := int64(999)
		none, err := s.svc.ListRecordsByStatus(s.ctx, models.StatusPending, 0, &other)
		s.Require().NoError(err)
		s.Empty(none)
	})
	s.Run("limit applies", func() {
		limited, err := s.svc.ListRecordsByStatus(s.ctx, models.StatusPending, 2, nil)
		s.Require().NoError(err)
		s.Len(limited, 2)
	})
	s.Run("invalid status", func() {
		_, err := s.svc.ListRecordsByStatus(s.ctx, models.RecordStatus("open"), 0, nil)
		s.True(dErrors.Is(err, dErrors.CodeInvalidArgument))
	})
}

func (s *ServiceSuite) TestListRecordsForFileEmpty() {
	file := s.store.SeedFile(models.ProcessedFile{Filename: "unsampled.pdf"})
	views, err := s.svc.ListRecordsForFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Empty(views)
}
