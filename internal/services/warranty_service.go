package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"repairdesk/internal/caching"
	"repairdesk/internal/common"
	"repairdesk/internal/models"
	"repairdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	warrantyClaimCacheTTL = 24 * time.Hour
	evidenceURLExpiry     = 15 * time.Minute
	maxEvidenceSize       = 10 << 20
)

// WarrantyStatus derives a job's warranty status at instant now. A job is
// Active up to and including its expiry instant and Expired afterwards.
func WarrantyStatus(job *models.Job, now time.Time) models.WarrantyStatus {
	if job == nil || job.WarrantyExpDate == nil {
		return models.WarrantyStatusNoWarranty
	}
	if now.After(*job.WarrantyExpDate) {
		return models.WarrantyStatusExpired
	}
	return models.WarrantyStatusActive
}

// FilterEligibleJobs keeps jobs that carry warranty metadata and, for a
// non-blank query, match it case-insensitively against the product name,
// customer name or job id.
func FilterEligibleJobs(jobs []*models.Job, query string) []*models.Job {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.Job, 0, len(jobs))
	for _, j := range jobs {
		if !j.HasWarranty() {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(j.ProductName), q) ||
			strings.Contains(strings.ToLower(j.CustomerName), q) ||
			strings.Contains(strings.ToLower(j.ID.String()), q) {
			out = append(out, j)
		}
	}
	return out
}

type WarrantyService interface {
	GetJobWarranty(ctx context.Context, jobID uuid.UUID) (*models.JobWarranty, error)
	ListEligibleJobs(ctx context.Context, search string) ([]*models.JobWarranty, error)
	// ClaimWarranty records the one claim a job may have. Claims are accepted
	// whether the warranty is currently active or expired.
	ClaimWarranty(ctx context.Context, jobID uuid.UUID, issueDescription string) (*models.WarrantyClaim, error)
	GetClaim(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error)
	AttachEvidence(ctx context.Context, jobID uuid.UUID, fileName, contentType string, body io.Reader, size int64) (*models.ClaimEvidence, error)
	ListEvidence(ctx context.Context, jobID uuid.UUID) ([]*models.ClaimEvidence, error)
}

type warrantyService struct {
	store   repositories.Store
	cache   caching.CacheService
	objects MinioService
	bucket  string
	logger  *zap.Logger
	now     Clock
	timeout time.Duration
}

func NewWarrantyService(store repositories.Store, cache caching.CacheService, objects MinioService, bucket string, logger *zap.Logger, clock Clock, timeout time.Duration) WarrantyService {
	return &warrantyService{
		store:   store,
		cache:   cache,
		objects: objects,
		bucket:  bucket,
		logger:  logger,
		now:     clockOrNow(clock),
		timeout: timeout,
	}
}

func (s *warrantyService) GetJobWarranty(ctx context.Context, jobID uuid.UUID) (*models.JobWarranty, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, common.ClassifyStorageError("get job", "job", jobID.String(), err)
	}
	return &models.JobWarranty{Job: job, Status: WarrantyStatus(job, s.now())}, nil
}

func (s *warrantyService) ListEligibleJobs(ctx context.Context, search string) ([]*models.JobWarranty, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	jobs, err := s.store.Jobs().ListWithWarranty(ctx)
	if err != nil {
		return nil, common.ClassifyStorageError("list warranty jobs", "job", "", err)
	}

	now := s.now()
	filtered := FilterEligibleJobs(jobs, search)
	out := make([]*models.JobWarranty, 0, len(filtered))
	for _, j := range filtered {
		out = append(out, &models.JobWarranty{Job: j, Status: WarrantyStatus(j, now)})
	}
	return out, nil
}

func (s *warrantyService) ClaimWarranty(ctx context.Context, jobID uuid.UUID, issueDescription string) (*models.WarrantyClaim, error) {
	issue := common.StringPtr(issueDescription)
	if err := common.ValidateOptionalString(issue, "issue_description", 2000); err != nil {
		return nil, common.ValidationError("issue_description", err.Error())
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	claim := &models.WarrantyClaim{
		ID:               uuid.New(),
		JobID:            jobID,
		ClaimedAt:        s.now().UTC(),
		ClaimedBy:        common.ActorFromContext(ctx),
		IssueDescription: issue,
	}
	var status models.WarrantyStatus

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		claimed, err := tx.Jobs().MarkClaimed(ctx, jobID)
		if err != nil {
			return err
		}
		if !claimed {
			// either the job is unknown or another claim got there first
			job, err := tx.Jobs().GetByID(ctx, jobID)
			if err != nil {
				return err
			}
			return common.ConflictError("job", job.ID.String(), "warranty already claimed")
		}
		job, err := tx.Jobs().GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		status = WarrantyStatus(job, claim.ClaimedAt)
		return tx.WarrantyClaims().Create(ctx, claim)
	})
	if err != nil {
		return nil, common.ClassifyStorageError("claim warranty", "job", jobID.String(), err)
	}

	if err := s.cache.SetWarrantyClaim(ctx, claim, warrantyClaimCacheTTL); err != nil {
		s.logger.Warn("failed to cache warranty claim", zap.String("job_id", jobID.String()), zap.Error(err))
	}
	fields := []zap.Field{
		zap.String("job_id", jobID.String()),
		zap.String("claim_id", claim.ID.String()),
		zap.String("warranty_status", string(status)),
	}
	if status == models.WarrantyStatusExpired {
		s.logger.Warn("warranty claimed after expiry", fields...)
	} else {
		s.logger.Info("warranty claimed", fields...)
	}
	return claim, nil
}

func (s *warrantyService) GetClaim(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	cached, err := s.cache.GetWarrantyClaim(ctx, jobID)
	if err != nil {
		s.logger.Warn("warranty claim cache read failed", zap.String("job_id", jobID.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	claim, err := s.store.WarrantyClaims().GetByJobID(ctx, jobID)
	if err != nil {
		return nil, common.ClassifyStorageError("get warranty claim", "warranty_claim", jobID.String(), err)
	}
	if err := s.cache.SetWarrantyClaim(ctx, claim, warrantyClaimCacheTTL); err != nil {
		s.logger.Warn("failed to cache warranty claim", zap.String("job_id", jobID.String()), zap.Error(err))
	}
	return claim, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func evidencePrefix(jobID uuid.UUID) string {
	return fmt.Sprintf("claims/%s/", jobID)
}

func evidenceObjectName(jobID uuid.UUID, fileName string, at time.Time) string {
	base := unsafeFileChars.ReplaceAllString(path.Base(strings.ReplaceAll(fileName, "\\", "/")), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "evidence"
	}
	return fmt.Sprintf("%s%d-%s", evidencePrefix(jobID), at.UnixNano(), base)
}

func (s *warrantyService) AttachEvidence(ctx context.Context, jobID uuid.UUID, fileName, contentType string, body io.Reader, size int64) (*models.ClaimEvidence, error) {
	if size <= 0 {
		return nil, common.ValidationError("file", "must not be empty")
	}
	if size > maxEvidenceSize {
		return nil, common.ValidationError("file", fmt.Sprintf("cannot exceed %d bytes", maxEvidenceSize))
	}
	if _, err := s.GetClaim(ctx, jobID); err != nil {
		return nil, err
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	uploadedAt := s.now().UTC()
	name := evidenceObjectName(jobID, fileName, uploadedAt)
	if err := s.objects.UploadObject(ctx, s.bucket, name, body, size, contentType); err != nil {
		return nil, objectStoreError("upload evidence", err)
	}
	url, err := s.objects.GetPresignedURL(ctx, s.bucket, name, evidenceURLExpiry)
	if err != nil {
		s.removeEvidence(ctx, name)
		return nil, objectStoreError("presign evidence", err)
	}

	s.logger.Info("warranty evidence uploaded", zap.String("job_id", jobID.String()), zap.String("object", name), zap.Int64("size", size))
	return &models.ClaimEvidence{ObjectName: name, Size: size, URL: url, UploadedAt: uploadedAt}, nil
}

// removeEvidence drops an object whose upload the caller was told failed.
func (s *warrantyService) removeEvidence(ctx context.Context, name string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.objects.DeleteObject(ctx, s.bucket, name); err != nil {
		s.logger.Warn("failed to remove orphaned evidence", zap.String("object", name), zap.Error(err))
	}
}

func (s *warrantyService) ListEvidence(ctx context.Context, jobID uuid.UUID) ([]*models.ClaimEvidence, error) {
	if _, err := s.GetClaim(ctx, jobID); err != nil {
		return nil, err
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	objects, err := s.objects.ListObjects(ctx, s.bucket, evidencePrefix(jobID))
	if err != nil {
		return nil, objectStoreError("list evidence", err)
	}
	out := make([]*models.ClaimEvidence, 0, len(objects))
	for _, obj := range objects {
		url, err := s.objects.GetPresignedURL(ctx, s.bucket, obj.Name, evidenceURLExpiry)
		if err != nil {
			return nil, objectStoreError("presign evidence", err)
		}
		out = append(out, &models.ClaimEvidence{ObjectName: obj.Name, Size: obj.Size, URL: url, UploadedAt: obj.LastModified})
	}
	return out, nil
}

// object storage failures are all treated as retryable
func objectStoreError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return common.UnavailableError(op, err)
}
