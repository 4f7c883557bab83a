package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrBoardMemberNotFound is returned when the board member does not exist.
	ErrBoardMemberNotFound = errors.New("board member not found")
	// ErrBoardMemberOrder is returned when a reorder request is not a permutation of ids.
	ErrBoardMemberOrder = errors.New("invalid board member order")
)

// BoardService maintains the club board shown on the about index page.
type BoardService struct {
	db *gorm.DB
}

// NewBoardService creates a BoardService.
func NewBoardService(gdb *gorm.DB) *BoardService {
	return &BoardService{db: gdb}
}

// BoardMemberInput describes the editable fields of a board member.
// A nil SortOrder appends the member at the end.
type BoardMemberInput struct {
	Name      string
	Callsign  string
	Role      string
	PhotoID   *uint
	Email     string
	SortOrder *int
}

// List returns the board in display order.
func (s *BoardService) List() ([]db.BoardMember, error) {
	var members []db.BoardMember
	if err := s.db.Preload("Photo").Order("sort_order ASC, id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list board members: %w", err)
	}
	return members, nil
}

// Get fetches a board member by id.
func (s *BoardService) Get(id uint) (*db.BoardMember, error) {
	var member db.BoardMember
	if err := s.db.Preload("Photo").First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardMemberNotFound
		}
		return nil, fmt.Errorf("get board member: %w", err)
	}
	return &member, nil
}

// FindByCallsign returns the member holding callsign, or ErrBoardMemberNotFound.
func (s *BoardService) FindByCallsign(callsign string) (*db.BoardMember, error) {
	var member db.BoardMember
	if err := s.db.Where("callsign = ?", strings.ToUpper(strings.TrimSpace(callsign))).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardMemberNotFound
		}
		return nil, fmt.Errorf("find board member: %w", err)
	}
	return &member, nil
}

// Create adds a board member.
func (s *BoardService) Create(input BoardMemberInput) (*db.BoardMember, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	sortOrder, err := s.resolveSort(input.SortOrder)
	if err != nil {
		return nil, err
	}

	member := db.BoardMember{SortOrder: sortOrder}
	applyBoardMemberInput(&member, input)
	if err := s.db.Omit("Photo").Create(&member).Error; err != nil {
		return nil, fmt.Errorf("create board member: %w", err)
	}
	return s.Get(member.ID)
}

// Update modifies a board member.
func (s *BoardService) Update(id uint, input BoardMemberInput) (*db.BoardMember, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var member db.BoardMember
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardMemberNotFound
		}
		return nil, fmt.Errorf("find board member: %w", err)
	}

	applyBoardMemberInput(&member, input)
	if input.SortOrder != nil {
		member.SortOrder = *input.SortOrder
	}
	if err := s.db.Omit("Photo").Save(&member).Error; err != nil {
		return nil, fmt.Errorf("update board member: %w", err)
	}
	return s.Get(member.ID)
}

// Delete removes a board member.
func (s *BoardService) Delete(id uint) error {
	result := s.db.Delete(&db.BoardMember{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete board member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBoardMemberNotFound
	}
	return nil
}

// Reorder assigns 0,1,2... to the given ids in order.
func (s *BoardService) Reorder(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if len(uniqueIDs(ids)) != len(ids) {
		return ErrBoardMemberOrder
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for index, id := range ids {
			result := tx.Model(&db.BoardMember{}).Where("id = ?", id).Update("sort_order", index)
			if result.Error != nil {
				return fmt.Errorf("reorder board members: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrBoardMemberNotFound
			}
		}
		return nil
	})
}

func (s *BoardService) resolveSort(sortPtr *int) (int, error) {
	if sortPtr != nil {
		return *sortPtr, nil
	}

	var maxSort int
	if err := s.db.Model(&db.BoardMember{}).Select("COALESCE(MAX(sort_order), -1)").Scan(&maxSort).Error; err != nil {
		return 0, fmt.Errorf("resolve board member order: %w", err)
	}
	return maxSort + 1, nil
}

func (s *BoardService) validate(input BoardMemberInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "El nombre es obligatorio.")
	}
	if strings.TrimSpace(input.Role) == "" {
		verr.Add("role", "El cargo es obligatorio.")
	}
	if len(strings.TrimSpace(input.Callsign)) > 20 {
		verr.Add("callsign", "El indicativo no puede superar los 20 caracteres.")
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.Add("email", "Introduce una dirección de correo válida.")
		}
	}
	if input.PhotoID != nil && *input.PhotoID != 0 {
		exists, err := recordExists(s.db, &db.Image{}, *input.PhotoID)
		if err != nil {
			return err
		}
		if !exists {
			verr.Add("photo_id", "La imagen no existe.")
		}
	}
	return verr.Err()
}

func applyBoardMemberInput(member *db.BoardMember, input BoardMemberInput) {
	member.Name = strings.TrimSpace(input.Name)
	member.Callsign = strings.ToUpper(strings.TrimSpace(input.Callsign))
	member.Role = strings.TrimSpace(input.Role)
	member.Email = strings.TrimSpace(input.Email)
	member.PhotoID = nil
	if input.PhotoID != nil && *input.PhotoID != 0 {
		id := *input.PhotoID
		member.PhotoID = &id
	}
}
