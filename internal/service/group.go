package service

import (
	"context"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/repository"
)

type groupService struct {
	groupRepo repository.GroupRepository
}

func NewGroupService(groupRepo repository.GroupRepository) GroupService {
	return &groupService{groupRepo: groupRepo}
}

func (s *groupService) GetGroup(ctx context.Context, id int32) (*domain.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Members, err = s.groupRepo.MembersWithContacts(ctx, id)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) GroupMembers(ctx context.Context, groupID int32) ([]domain.SlotMember, error) {
	return s.groupRepo.MembersWithContacts(ctx, groupID)
}

func (s *groupService) MyGroups(ctx context.Context, userID int64) ([]domain.Group, error) {
	return s.groupRepo.ListByUser(ctx, userID)
}

func (s *groupService) EventGroups(ctx context.Context, eventID int32) ([]domain.Group, error) {
	return s.groupRepo.ListByEvent(ctx, eventID)
}
