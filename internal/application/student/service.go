package student

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pathshala/backend/internal/application/common"
	"github.com/pathshala/backend/internal/domain/admission"
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/domain/student"
	"go.uber.org/zap"
)

// Service manages students and the freeze/unfreeze cascade over their
// admissions.
type Service struct {
	students   student.Repository
	admissions admission.Repository
	tx         common.TxManager
	logger     *zap.Logger
}

// NewService creates the student service
func NewService(students student.Repository, admissions admission.Repository, tx common.TxManager, logger *zap.Logger) *Service {
	return &Service{students: students, admissions: admissions, tx: tx, logger: logger}
}

// RegisterCommand creates a student.
type RegisterCommand struct {
	TenantID      uuid.UUID
	CentreID      uuid.UUID
	Name          string
	Phone         string
	Email         string
	GuardianName  string
	GuardianPhone string
	Address       string
}

// Register creates a student, refusing duplicate phone numbers per tenant.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*student.Student, error) {
	existing, err := s.students.FindByPhone(ctx, cmd.TenantID, cmd.Phone)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_PHONE", "A student with this phone number already exists")
	}

	stu, err := student.NewStudent(cmd.TenantID, cmd.CentreID, cmd.Name, cmd.Phone)
	if err != nil {
		return nil, err
	}
	stu.Email = cmd.Email
	stu.GuardianName = cmd.GuardianName
	stu.GuardianPhone = cmd.GuardianPhone
	stu.Address = cmd.Address

	if err := s.students.Save(ctx, stu); err != nil {
		return nil, err
	}
	s.logger.Info("student registered", zap.String("student_id", stu.ID.String()))
	return stu, nil
}

// Deactivate freezes a student and every active admission they hold.
// Frozen admissions refuse payments until reactivation.
func (s *Service) Deactivate(ctx context.Context, tenantID, studentID uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stu, err := s.students.FindByIDForTenant(ctx, tenantID, studentID)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := stu.Deactivate(now); err != nil {
			return err
		}
		if err := s.students.Save(ctx, stu); err != nil {
			return err
		}

		list, err := s.admissions.FindByStudent(ctx, tenantID, studentID)
		if err != nil {
			return err
		}
		for i := range list {
			a := &list[i]
			if a.Status != admission.StatusActive {
				continue
			}
			expectedVersion := a.Version
			if err := a.Deactivate(now); err != nil {
				return err
			}
			if err := s.admissions.SaveWithLock(ctx, a, expectedVersion); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("student deactivated", zap.String("student_id", studentID.String()))
	return nil
}

// Reactivate unfreezes a student. Each frozen admission shifts its
// unsettled due dates forward by the days it spent inactive, so nobody
// comes back to a wall of overdue installments they never had a chance
// to pay.
func (s *Service) Reactivate(ctx context.Context, tenantID, studentID uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stu, err := s.students.FindByIDForTenant(ctx, tenantID, studentID)
		if err != nil {
			return err
		}
		if err := stu.Reactivate(); err != nil {
			return err
		}
		if err := s.students.Save(ctx, stu); err != nil {
			return err
		}

		now := time.Now()
		list, err := s.admissions.FindByStudent(ctx, tenantID, studentID)
		if err != nil {
			return err
		}
		for i := range list {
			a := &list[i]
			if a.Status != admission.StatusInactive {
				continue
			}
			expectedVersion := a.Version
			if err := a.Reactivate(now); err != nil {
				return err
			}
			if err := s.admissions.SaveWithLock(ctx, a, expectedVersion); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("student reactivated", zap.String("student_id", studentID.String()))
	return nil
}

// Get loads one student.
func (s *Service) Get(ctx context.Context, tenantID, studentID uuid.UUID) (*student.Student, error) {
	return s.students.FindByIDForTenant(ctx, tenantID, studentID)
}

// ListByCentre pages through a centre's students.
func (s *Service) ListByCentre(ctx context.Context, tenantID, centreID uuid.UUID, filter shared.Filter) (*shared.Paginated[student.Student], error) {
	return s.students.FindByCentre(ctx, tenantID, centreID, filter)
}
