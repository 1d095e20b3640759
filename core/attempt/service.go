package attempt

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/somolms/somo/core"
	"github.com/somolms/somo/core/content"
)

// Service mediates all tracking operations on attempts. It is the host-side
// counterpart of the runtime bridge: the runtime endpoint translates each
// LMS* call into one Service call.
type Service struct {
	repo        Repository
	contentRepo content.Repository
	mailSvc     core.EmailService
	conf        *core.Config
}

func NewService(repo Repository, contentRepo content.Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:        repo,
		contentRepo: contentRepo,
		mailSvc:     mailSvc,
		conf:        conf,
	}
}

// Start returns the attempt a learner should run for a package: an
// unfinished attempt is resumed, otherwise a fresh one is created. When the
// package forbids multiple attempts and the learner already completed or
// passed it, ErrAttemptLimit is returned.
func (svc *Service) Start(ctx context.Context, pkg content.Package, learner Learner) (Attempt, error) {
	now := time.Now().UTC()

	latest, err := svc.repo.GetLatestAttempt(ctx, pkg.ID, learner.ID)
	switch errors.Cause(err) {
	case nil:
		if !latest.Finished() {
			// resume the open attempt
			latest.LastAccessed = now
			if latest.SuspendData != "" {
				latest.Entry = EntryResume
			}
			return svc.repo.UpdateAttempt(ctx, latest)
		}
		if !pkg.AllowMultipleAttempts && latest.IsComplete() {
			return Attempt{}, ErrAttemptLimit
		}
	case ErrNotFound:
	default:
		return Attempt{}, errors.Wrap(err, "getting latest attempt")
	}

	att := Attempt{
		ID:           uuid.New().String(),
		PackageID:    pkg.ID,
		LearnerID:    learner.ID,
		LearnerName:  learner.Name,
		LearnerEmail: learner.Email,
		StartedAt:    now,
		LastAccessed: now,
		LessonStatus: StatusIncomplete,
		ScoreMin:     0,
		ScoreMax:     100,
		Credit:       "credit",
		Entry:        EntryAbInitio,
	}
	return svc.repo.CreateAttempt(ctx, att)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Attempt, error) {
	return svc.repo.GetAttemptByID(ctx, id)
}

// GetElement reads one data model element for an attempt. Unknown elements
// read as empty strings.
func (svc *Service) GetElement(ctx context.Context, attemptID, element string) (string, error) {
	att, err := svc.repo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return "", err
	}

	switch element {
	case "cmi.interactions._count":
		ins, err := svc.repo.QueryInteractions(ctx, attemptID)
		if err != nil {
			return "", errors.Wrap(err, "querying interactions")
		}
		return strconv.Itoa(len(ins)), nil
	case "cmi.objectives._count":
		obs, err := svc.repo.QueryObjectives(ctx, attemptID)
		if err != nil {
			return "", errors.Wrap(err, "querying objectives")
		}
		return strconv.Itoa(len(obs)), nil
	}

	if m := objectiveRegex.FindStringSubmatch(element); m != nil {
		idx, _ := strconv.Atoi(m[1])
		ob, ok, err := svc.findObjective(ctx, attemptID, idx)
		if err != nil || !ok {
			return "", err
		}
		return getObjectiveField(&ob, m[2]), nil
	}
	if interactionRegex.MatchString(element) {
		// interactions are write-only in the 1.2 data model
		return "", nil
	}

	return getCoreElement(&att, element), nil
}

// SetElement writes one data model element for an attempt and persists it
// immediately; the runtime endpoint is stateless between calls. The boolean
// reports whether the value was accepted, infra failures come back as
// errors.
func (svc *Service) SetElement(ctx context.Context, attemptID, element, value string) (bool, error) {
	if m := interactionRegex.FindStringSubmatch(element); m != nil {
		idx, _ := strconv.Atoi(m[1])
		return svc.setInteractionField(ctx, attemptID, idx, m[2], value)
	}
	if m := objectiveRegex.FindStringSubmatch(element); m != nil {
		idx, _ := strconv.Atoi(m[1])
		return svc.setObjectiveField(ctx, attemptID, idx, m[2], value)
	}

	att, err := svc.repo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return false, err
	}
	if !applyCoreElement(&att, element, value) {
		return false, nil
	}
	att.LastAccessed = time.Now().UTC()
	if _, err = svc.repo.UpdateAttempt(ctx, att); err != nil {
		return false, errors.Wrap(err, "updating attempt")
	}
	return true, nil
}

// Commit acknowledges an explicit flush request. Element writes are already
// durable by the time they return, so committing only refreshes the access
// timestamp.
func (svc *Service) Commit(ctx context.Context, attemptID string) error {
	att, err := svc.repo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return err
	}
	att.LastAccessed = time.Now().UTC()
	_, err = svc.repo.UpdateAttempt(ctx, att)
	return errors.Wrap(err, "updating attempt")
}

// Finish closes an attempt: stamps completion, folds the reported session
// time into the total, derives pass/fail from the package's passing score
// when content never set a final status, and notifies the learner when the
// run ended well. Finishing an already-finished attempt is a no-op.
func (svc *Service) Finish(ctx context.Context, attemptID string) error {
	att, err := svc.repo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return err
	}
	if att.Finished() {
		return nil
	}

	pkg, err := svc.contentRepo.GetPackageByID(ctx, att.PackageID)
	if err != nil {
		return errors.Wrap(err, "getting package")
	}

	now := time.Now().UTC()
	att.CompletedAt = now
	att.LastAccessed = now
	att.TotalTime += att.SessionTime
	att.SessionTime = 0

	// content that only reports a score gets graded against the package
	if att.ScoreRaw != nil && !att.IsComplete() && att.LessonStatus != StatusFailed {
		if att.IsPassed(pkg.PassingScore) {
			att.LessonStatus = StatusPassed
		} else {
			att.LessonStatus = StatusFailed
		}
	}

	if att, err = svc.repo.UpdateAttempt(ctx, att); err != nil {
		return errors.Wrap(err, "updating attempt")
	}

	if att.IsComplete() {
		svc.notifyCompletion(att, pkg)
	}
	return nil
}

// Progress summarizes a learner's attempts per package, newest first.
func (svc *Service) Progress(ctx context.Context, learnerID string) ([]PackageProgress, error) {
	atts, err := svc.repo.QueryAttemptsByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	var order []string
	byPkg := make(map[string]*PackageProgress)
	for i := range atts {
		att := &atts[i]
		prog, ok := byPkg[att.PackageID]
		if !ok {
			title := att.PackageID
			if pkg, err := svc.contentRepo.GetPackageByID(ctx, att.PackageID); err == nil {
				title = pkg.Title
			}
			prog = &PackageProgress{
				PackageID:    att.PackageID,
				PackageTitle: title,
				LatestStatus: att.LessonStatus, // attempts come newest first
			}
			byPkg[att.PackageID] = prog
			order = append(order, att.PackageID)
		}
		prog.TotalAttempts++
		if att.ScoreRaw != nil && *att.ScoreRaw > prog.BestScore {
			prog.BestScore = *att.ScoreRaw
		}
		if att.IsComplete() {
			prog.Completed = true
		}
	}

	progress := make([]PackageProgress, 0, len(order))
	for _, id := range order {
		progress = append(progress, *byPkg[id])
	}
	return progress, nil
}

func (svc *Service) setInteractionField(ctx context.Context, attemptID string, idx int, field, value string) (bool, error) {
	// the attempt must exist before anything hangs off it
	if _, err := svc.repo.GetAttemptByID(ctx, attemptID); err != nil {
		return false, err
	}

	in, ok, err := svc.findInteraction(ctx, attemptID, idx)
	if err != nil {
		return false, err
	}
	if !ok {
		in = Interaction{
			ID:        uuid.New().String(),
			AttemptID: attemptID,
			Index:     idx,
			Timestamp: time.Now().UTC(),
			Weighting: 1,
		}
	}
	if !applyInteractionField(&in, field, value) {
		return false, nil
	}
	if _, err = svc.repo.UpsertInteraction(ctx, in); err != nil {
		return false, errors.Wrap(err, "upserting interaction")
	}
	return true, nil
}

func (svc *Service) setObjectiveField(ctx context.Context, attemptID string, idx int, field, value string) (bool, error) {
	if _, err := svc.repo.GetAttemptByID(ctx, attemptID); err != nil {
		return false, err
	}

	ob, ok, err := svc.findObjective(ctx, attemptID, idx)
	if err != nil {
		return false, err
	}
	if !ok {
		ob = Objective{
			ID:        uuid.New().String(),
			AttemptID: attemptID,
			Index:     idx,
			Status:    StatusNotAttempted,
			ScoreMin:  0,
			ScoreMax:  100,
		}
	}
	if !applyObjectiveField(&ob, field, value) {
		return false, nil
	}
	if _, err = svc.repo.UpsertObjective(ctx, ob); err != nil {
		return false, errors.Wrap(err, "upserting objective")
	}
	return true, nil
}

func (svc *Service) findInteraction(ctx context.Context, attemptID string, idx int) (Interaction, bool, error) {
	ins, err := svc.repo.QueryInteractions(ctx, attemptID)
	if err != nil {
		return Interaction{}, false, errors.Wrap(err, "querying interactions")
	}
	for _, in := range ins {
		if in.Index == idx {
			return in, true, nil
		}
	}
	return Interaction{}, false, nil
}

func (svc *Service) findObjective(ctx context.Context, attemptID string, idx int) (Objective, bool, error) {
	obs, err := svc.repo.QueryObjectives(ctx, attemptID)
	if err != nil {
		return Objective{}, false, errors.Wrap(err, "querying objectives")
	}
	for _, ob := range obs {
		if ob.Index == idx {
			return ob, true, nil
		}
	}
	return Objective{}, false, nil
}

func (svc *Service) notifyCompletion(att Attempt, pkg content.Package) {
	if svc.mailSvc == nil || att.LearnerEmail == "" {
		return
	}
	body := fmt.Sprintf("Hi %s,\n\nYou have %s %q.", att.LearnerName, att.LessonStatus, pkg.Title)
	if att.ScoreRaw != nil {
		body += fmt.Sprintf("\nYour score: %s%%.", formatFloat(att.PercentageScore()))
	}
	if svc.conf != nil && svc.conf.FrontendBaseURL != "" {
		body += fmt.Sprintf("\n\nSee your progress: %s/progress", svc.conf.FrontendBaseURL)
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: att.LearnerName, Address: att.LearnerEmail}},
		Subject: fmt.Sprintf("%q %s", pkg.Title, att.LessonStatus),
		Body:    body,
	})
}
