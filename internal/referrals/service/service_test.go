package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"usahudhomes_backend/internal/referrals/domain"
	"usahudhomes_backend/internal/referrals/ports"
	"usahudhomes_backend/internal/referrals/repository"
	"usahudhomes_backend/platform/apperr"
	"usahudhomes_backend/platform/events"
	"usahudhomes_backend/platform/logger"
)

// fakeRepo is an in-memory Repository with the same guard semantics as the
// SQL implementation.
type fakeRepo struct {
	consultations  map[uuid.UUID]*domain.Consultation
	activities     []repository.AppendActivityParams
	customers      map[string]uuid.UUID
	failActivities bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		consultations: make(map[uuid.UUID]*domain.Consultation),
		customers:     make(map[string]uuid.UUID),
	}
}

func (f *fakeRepo) addConsultation(state string) uuid.UUID {
	id := uuid.New()
	f.consultations[id] = &domain.Consultation{
		ID:            id,
		CustomerName:  "Jordan Buyer",
		CustomerEmail: "jordan@example.com",
		State:         state,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	return id
}

func (f *fakeRepo) CreateConsultation(ctx context.Context, params repository.CreateConsultationParams) (domain.Consultation, error) {
	id := uuid.New()
	c := &domain.Consultation{
		ID:              id,
		CustomerID:      params.CustomerID,
		PropertyID:      params.PropertyID,
		CustomerName:    params.CustomerName,
		CustomerEmail:   params.CustomerEmail,
		CustomerPhone:   params.CustomerPhone,
		PropertyAddress: params.PropertyAddress,
		CaseNumber:      params.CaseNumber,
		Message:         params.Message,
		State:           params.State,
		Source:          params.Source,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	f.consultations[id] = c
	return *c, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Consultation, error) {
	c, ok := f.consultations[id]
	if !ok {
		return domain.Consultation{}, apperr.NotFound("consultation not found")
	}
	return *c, nil
}

func (f *fakeRepo) MarkReferred(ctx context.Context, id, agentID uuid.UUID, assignedAt, expiresAt time.Time) (domain.Consultation, error) {
	c, ok := f.consultations[id]
	if !ok {
		return domain.Consultation{}, apperr.NotFound("consultation not found")
	}
	broker := agentID
	at := assignedAt
	exp := expiresAt
	c.AssignedBrokerID = &broker
	c.AssignedAt = &at
	c.ReferralExpiresAt = &exp
	c.AcceptedAt = nil
	c.DeclinedAt = nil
	c.ExpiredAt = nil
	c.DeclineReason = ""
	c.DeclineNotes = ""
	return *c, nil
}

func (f *fakeRepo) MarkAccepted(ctx context.Context, id, agentID uuid.UUID, at time.Time) (domain.Consultation, error) {
	c, err := f.guarded(id, agentID)
	if err != nil {
		return domain.Consultation{}, err
	}
	when := at
	c.AcceptedAt = &when
	return *c, nil
}

func (f *fakeRepo) MarkDeclined(ctx context.Context, id, agentID uuid.UUID, at time.Time, reason, notes string) (domain.Consultation, error) {
	c, err := f.guarded(id, agentID)
	if err != nil {
		return domain.Consultation{}, err
	}
	when := at
	c.DeclinedAt = &when
	c.DeclineReason = reason
	c.DeclineNotes = notes
	return *c, nil
}

func (f *fakeRepo) guarded(id, agentID uuid.UUID) (*domain.Consultation, error) {
	c, ok := f.consultations[id]
	if !ok {
		return nil, apperr.NotFound("consultation not found")
	}
	if c.AssignedBrokerID == nil || *c.AssignedBrokerID != agentID {
		return nil, apperr.Forbidden("referral is assigned to a different agent")
	}
	if c.Status() != domain.StatusReferred {
		return nil, apperr.Conflict("referral is not awaiting a response")
	}
	return c, nil
}

func (f *fakeRepo) SetOutcome(ctx context.Context, id uuid.UUID, outcome, notes string) (domain.Consultation, error) {
	c, ok := f.consultations[id]
	if !ok {
		return domain.Consultation{}, apperr.NotFound("consultation not found")
	}
	c.Outcome = outcome
	c.OutcomeNotes = notes
	return *c, nil
}

func (f *fakeRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Consultation, error) {
	var results []domain.Consultation
	for _, c := range f.consultations {
		if c.AssignedBrokerID != nil && *c.AssignedBrokerID == agentID {
			results = append(results, *c)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].AssignedAt.After(*results[j].AssignedAt)
	})
	return results, nil
}

func (f *fakeRepo) ExpireOverdue(ctx context.Context, now time.Time) ([]domain.Consultation, error) {
	var results []domain.Consultation
	for _, c := range f.consultations {
		if c.Status() == domain.StatusReferred && c.ReferralExpiresAt != nil && c.ReferralExpiresAt.Before(now) && c.AcceptedAt == nil {
			when := now
			c.ExpiredAt = &when
			results = append(results, *c)
		}
	}
	return results, nil
}

func (f *fakeRepo) AppendActivity(ctx context.Context, params repository.AppendActivityParams) error {
	if f.failActivities {
		return errors.New("activity store unavailable")
	}
	f.activities = append(f.activities, params)
	return nil
}

func (f *fakeRepo) ListActivities(ctx context.Context, consultationID uuid.UUID) ([]domain.Activity, error) {
	var results []domain.Activity
	for _, params := range f.activities {
		if params.ConsultationID == consultationID {
			results = append(results, domain.Activity{
				ID:             uuid.New(),
				ConsultationID: params.ConsultationID,
				AgentID:        params.AgentID,
				Type:           params.Type,
				Description:    params.Description,
				Metadata:       params.Metadata,
			})
		}
	}
	return results, nil
}

func (f *fakeRepo) UpsertCustomer(ctx context.Context, name, email, phone string) (uuid.UUID, error) {
	if id, ok := f.customers[email]; ok {
		return id, nil
	}
	id := uuid.New()
	f.customers[email] = id
	return id, nil
}

func (f *fakeRepo) FindPropertyIDByCaseNumber(ctx context.Context, caseNumber string) (*uuid.UUID, error) {
	return nil, nil
}

func (f *fakeRepo) activitiesOfType(activityType domain.ActivityType) []repository.AppendActivityParams {
	var results []repository.AppendActivityParams
	for _, params := range f.activities {
		if params.Type == activityType {
			results = append(results, params)
		}
	}
	return results
}

// fakeAgents is an in-memory AgentProvider with a stable order.
type fakeAgents struct {
	agents []ports.AgentCandidate
}

func (f *fakeAgents) ListActive(ctx context.Context) ([]ports.AgentCandidate, error) {
	var active []ports.AgentCandidate
	for _, agent := range f.agents {
		if agent.IsActive {
			active = append(active, agent)
		}
	}
	return active, nil
}

func (f *fakeAgents) GetByID(ctx context.Context, id uuid.UUID) (ports.AgentCandidate, error) {
	for _, agent := range f.agents {
		if agent.ID == id {
			return agent, nil
		}
	}
	return ports.AgentCandidate{}, apperr.NotFound("agent not found")
}

// captureBus records published events.
type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *captureBus) Subscribe(eventName string, handler events.Handler) {}

func newTestService(repo *fakeRepo, agents *fakeAgents, at time.Time) (*Service, *captureBus) {
	bus := &captureBus{}
	svc := New(repo, agents, bus, logger.New("development")).WithClock(func() time.Time { return at })
	return svc, bus
}

func activeAgent(name, email string, states ...string) ports.AgentCandidate {
	return ports.AgentCandidate{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		IsActive:      true,
		StatesCovered: states,
	}
}

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAssign_AutoSelectsCoveringAgent(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, bus := newTestService(repo, agents, t0)

	id := repo.addConsultation("NC")

	updated, err := svc.Assign(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("expected assignment to succeed, got %v", err)
	}

	if updated.AssignedBrokerID == nil || *updated.AssignedBrokerID != agent.ID {
		t.Fatalf("expected consultation assigned to %s", agent.ID)
	}
	if updated.Status() != domain.StatusReferred {
		t.Fatalf("expected referred status, got %q", updated.Status())
	}
	if updated.ReferralExpiresAt.Sub(*updated.AssignedAt) != domain.ReferralWindow {
		t.Fatalf("expected expiry exactly %v after assignment, got %v",
			domain.ReferralWindow, updated.ReferralExpiresAt.Sub(*updated.AssignedAt))
	}

	assigned := repo.activitiesOfType(domain.ActivityReferralAssigned)
	if len(assigned) != 1 {
		t.Fatalf("expected exactly one assignment activity, got %d", len(assigned))
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
}

func TestAssign_NoAvailableAgent(t *testing.T) {
	repo := newFakeRepo()
	agents := &fakeAgents{agents: []ports.AgentCandidate{
		activeAgent("East Coast", "east@example.com", "NC", "VA"),
	}}
	svc, bus := newTestService(repo, agents, t0)

	id := repo.addConsultation("WY")

	_, err := svc.Assign(context.Background(), id, nil)
	if !apperr.Is(err, apperr.KindUnprocessable) {
		t.Fatalf("expected no-available-agent error, got %v", err)
	}

	unchanged, _ := repo.GetByID(context.Background(), id)
	if unchanged.AssignedBrokerID != nil || unchanged.AssignedAt != nil {
		t.Fatal("expected consultation to be unchanged after failed assignment")
	}
	if len(repo.activities) != 0 {
		t.Fatalf("expected no activities, got %d", len(repo.activities))
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestAssign_ExplicitAgentBypassesCoverage(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Out of Area", "out@example.com", "CA")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	id := repo.addConsultation("NC")

	updated, err := svc.Assign(context.Background(), id, &agent.ID)
	if err != nil {
		t.Fatalf("expected explicit assignment to bypass coverage, got %v", err)
	}
	if updated.AssignedBrokerID == nil || *updated.AssignedBrokerID != agent.ID {
		t.Fatal("expected explicit agent to be assigned")
	}
}

func TestAssign_ReassignResetsWindowAndClearsTerminalState(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	id := repo.addConsultation("NC")

	if _, err := svc.Assign(context.Background(), id, nil); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	if _, err := svc.Decline(context.Background(), id, agent.ID, "too_far", ""); err != nil {
		t.Fatalf("decline failed: %v", err)
	}

	later := t0.Add(3 * time.Hour)
	svc.WithClock(func() time.Time { return later })

	updated, err := svc.Assign(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("reassign after decline failed: %v", err)
	}

	if updated.Status() != domain.StatusReferred {
		t.Fatalf("expected referred after reassign, got %q", updated.Status())
	}
	if updated.DeclinedAt != nil || updated.DeclineReason != "" {
		t.Fatal("expected decline state to be cleared on reassign")
	}
	if !updated.AssignedAt.Equal(later) {
		t.Fatalf("expected assignment clock reset to %v, got %v", later, updated.AssignedAt)
	}
	if !updated.ReferralExpiresAt.Equal(later.Add(domain.ReferralWindow)) {
		t.Fatal("expected a fresh response window on reassign")
	}
}

func TestAccept_RecordsAcceptance(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	id := repo.addConsultation("NC")
	if _, err := svc.Assign(context.Background(), id, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	updated, err := svc.Accept(context.Background(), id, agent.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if updated.Status() != domain.StatusAccepted {
		t.Fatalf("expected accepted, got %q", updated.Status())
	}
	if updated.AcceptedAt == nil || !updated.AcceptedAt.Equal(t0) {
		t.Fatalf("expected accepted_at %v, got %v", t0, updated.AcceptedAt)
	}

	accepted := repo.activitiesOfType(domain.ActivityReferralAccepted)
	if len(accepted) != 1 {
		t.Fatalf("expected exactly one acceptance activity, got %d", len(accepted))
	}
}

func TestDecline_WrongAgentHasZeroEffect(t *testing.T) {
	repo := newFakeRepo()
	assigned := activeAgent("Casey Broker", "casey@example.com", "NC")
	intruder := activeAgent("Riley Other", "riley@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{assigned, intruder}}
	svc, _ := newTestService(repo, agents, t0)

	id := repo.addConsultation("NC")
	if _, err := svc.Assign(context.Background(), id, &assigned.ID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	_, err := svc.Decline(context.Background(), id, intruder.ID, "", "")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for wrong agent, got %v", err)
	}

	unchanged, _ := repo.GetByID(context.Background(), id)
	if unchanged.Status() != domain.StatusReferred {
		t.Fatalf("expected consultation untouched, got status %q", unchanged.Status())
	}
	if declined := repo.activitiesOfType(domain.ActivityReferralDeclined); len(declined) != 0 {
		t.Fatalf("expected no decline activity, got %d", len(declined))
	}
}

func TestAccept_AfterDeclineConflicts(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	id := repo.addConsultation("NC")
	if _, err := svc.Assign(context.Background(), id, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := svc.Decline(context.Background(), id, agent.ID, "busy", ""); err != nil {
		t.Fatalf("decline failed: %v", err)
	}

	_, err := svc.Accept(context.Background(), id, agent.ID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict accepting a declined referral, got %v", err)
	}

	final, _ := repo.GetByID(context.Background(), id)
	if final.Status() != domain.StatusDeclined {
		t.Fatalf("expected declined to stick, got %q", final.Status())
	}
}

func TestAccept_UnknownConsultationNotFound(t *testing.T) {
	repo := newFakeRepo()
	agents := &fakeAgents{}
	svc, _ := newTestService(repo, agents, t0)

	_, err := svc.Accept(context.Background(), uuid.New(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProcessExpired_MarksOverdueReferrals(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	id := repo.addConsultation("NC")
	if _, err := svc.Assign(context.Background(), id, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	svc.WithClock(func() time.Time { return t0.Add(49 * time.Hour) })

	summary, err := svc.ProcessExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if summary.Expired != 1 {
		t.Fatalf("expected one expired referral, got %d", summary.Expired)
	}
	if summary.Reassigned != 0 {
		t.Fatalf("expected zero reassignments, got %d", summary.Reassigned)
	}

	expired, _ := repo.GetByID(context.Background(), id)
	if expired.Status() != domain.StatusExpired {
		t.Fatalf("expected expired status, got %q", expired.Status())
	}
	if acts := repo.activitiesOfType(domain.ActivityReferralExpired); len(acts) != 1 {
		t.Fatalf("expected exactly one expiry activity, got %d", len(acts))
	}

	// A second sweep with no new assignments finds nothing.
	again, err := svc.ProcessExpired(context.Background())
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if again.Expired != 0 {
		t.Fatalf("expected idempotent sweep, got %d expired", again.Expired)
	}
}

func TestProcessExpired_SkipsAcceptedAndUnexpired(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	acceptedID := repo.addConsultation("NC")
	freshID := repo.addConsultation("NC")

	if _, err := svc.Assign(context.Background(), acceptedID, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := svc.Accept(context.Background(), acceptedID, agent.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	svc.WithClock(func() time.Time { return t0.Add(47 * time.Hour) })
	if _, err := svc.Assign(context.Background(), freshID, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	svc.WithClock(func() time.Time { return t0.Add(49 * time.Hour) })
	summary, err := svc.ProcessExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if summary.Expired != 0 {
		t.Fatalf("expected nothing to expire, got %d", summary.Expired)
	}
}

func TestProcessExpired_ReportsPerRowFailures(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	first := repo.addConsultation("NC")
	second := repo.addConsultation("NC")
	if _, err := svc.Assign(context.Background(), first, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := svc.Assign(context.Background(), second, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	repo.failActivities = true
	svc.WithClock(func() time.Time { return t0.Add(49 * time.Hour) })

	summary, err := svc.ProcessExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep should not abort on per-row failures, got %v", err)
	}
	if summary.Expired != 2 {
		t.Fatalf("expected both rows expired, got %d", summary.Expired)
	}
	if len(summary.Failures) != 2 {
		t.Fatalf("expected both audit failures reported, got %d", len(summary.Failures))
	}
}

func TestUpdateOutcome_LeavesLifecycleUntouched(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	id := repo.addConsultation("NC")
	if _, err := svc.Assign(context.Background(), id, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := svc.Accept(context.Background(), id, agent.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	updated, err := svc.UpdateOutcome(context.Background(), id, "sold", "closed at list price")
	if err != nil {
		t.Fatalf("update outcome failed: %v", err)
	}

	if updated.Outcome != "sold" || updated.OutcomeNotes != "closed at list price" {
		t.Fatal("expected outcome fields to be set")
	}
	if updated.Status() != domain.StatusAccepted {
		t.Fatalf("expected lifecycle status untouched, got %q", updated.Status())
	}
	if updated.AcceptedAt == nil || !updated.AcceptedAt.Equal(t0) {
		t.Fatal("expected accepted_at untouched by outcome recording")
	}
}

func TestListAgentReferrals_NewestAssignmentFirst(t *testing.T) {
	repo := newFakeRepo()
	agent := activeAgent("Casey Broker", "casey@example.com", "NC")
	agents := &fakeAgents{agents: []ports.AgentCandidate{agent}}
	svc, _ := newTestService(repo, agents, t0)

	older := repo.addConsultation("NC")
	newer := repo.addConsultation("NC")

	if _, err := svc.Assign(context.Background(), older, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	svc.WithClock(func() time.Time { return t0.Add(time.Hour) })
	if _, err := svc.Assign(context.Background(), newer, nil); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	referrals, err := svc.ListAgentReferrals(context.Background(), agent.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(referrals) != 2 {
		t.Fatalf("expected two referrals, got %d", len(referrals))
	}
	if referrals[0].ID != newer {
		t.Fatal("expected newest assignment first")
	}
}

func TestCreateIntake_NormalizesPhoneAndLinksCustomer(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo, &fakeAgents{}, t0)

	created, err := svc.CreateIntake(context.Background(), IntakeParams{
		Name:   "Jordan Buyer",
		Email:  "jordan@example.com",
		Phone:  "(919) 555-0142",
		State:  "NC",
		Source: "web_form",
	})
	if err != nil {
		t.Fatalf("intake failed: %v", err)
	}

	if created.Status() != domain.StatusUnassigned {
		t.Fatalf("expected unassigned, got %q", created.Status())
	}
	if created.CustomerPhone != "+19195550142" {
		t.Fatalf("expected normalized phone, got %q", created.CustomerPhone)
	}
	if created.CustomerID == nil {
		t.Fatal("expected customer link")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected a created event, got %d", len(bus.published))
	}
}
