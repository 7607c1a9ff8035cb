package repository

import (
	"context"

	"community_hub/internal/domain/group/model"
	userModel "community_hub/internal/domain/user/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository 群组仓库
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	GetDetail(ctx context.Context, id string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)

	// 以下四个方法返回 changed=true 表示状态发生了变化
	AddMember(ctx context.Context, groupID, userID string) (bool, error)
	RemoveMember(ctx context.Context, groupID, userID string) (bool, error)
	AddFollower(ctx context.Context, groupID, userID string) (bool, error)
	RemoveFollower(ctx context.Context, groupID, userID string) (bool, error)

	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	JoinedGroups(ctx context.Context, userID string) ([]model.Group, error)
	FollowedGroups(ctx context.Context, userID string) ([]model.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

const memberCountColumn = "(SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = groups.id) AS member_count"

func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select(userModel.PublicColumns)
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetDetail 返回群组及其成员、帖子（新的在前）
func (r *groupRepository) GetDetail(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Preload("Members", publicUser).
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("posts.created_at DESC")
		}).
		Preload("Posts.Author", publicUser).
		Preload("Posts.Reactions").
		Preload("Posts.Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Posts.Comments.Author", publicUser).
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	group.MemberCount = int64(len(group.Members))
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Select("groups.*, " + memberCountColumn).
		Order("groups.created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID string) (bool, error) {
	return r.insertLink(ctx, groupID, &model.Membership{GroupID: groupID, UserID: userID})
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID string) (bool, error) {
	return r.deleteLink(ctx, groupID, userID, &model.Membership{})
}

func (r *groupRepository) AddFollower(ctx context.Context, groupID, userID string) (bool, error) {
	return r.insertLink(ctx, groupID, &model.Follow{GroupID: groupID, UserID: userID})
}

func (r *groupRepository) RemoveFollower(ctx context.Context, groupID, userID string) (bool, error) {
	return r.deleteLink(ctx, groupID, userID, &model.Follow{})
}

// insertLink 插入关系行（已存在则忽略），仅在确实插入时计数 +1
func (r *groupRepository) insertLink(ctx context.Context, groupID string, link interface{}) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockGroup(tx, groupID); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(link)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return adjustFollowers(tx, groupID, 1)
	})
	return changed, err
}

// deleteLink 删除关系行，仅在确实删除时计数 -1（不低于 0）
func (r *groupRepository) deleteLink(ctx context.Context, groupID, userID string, link interface{}) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockGroup(tx, groupID); err != nil {
			return err
		}
		res := tx.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(link)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return adjustFollowers(tx, groupID, -1)
	})
	return changed, err
}

// lockGroup 锁定群组行，群组不存在时返回 gorm.ErrRecordNotFound
func lockGroup(tx *gorm.DB, groupID string) error {
	var group model.Group
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", groupID).
		First(&group).Error
}

func adjustFollowers(tx *gorm.DB, groupID string, delta int) error {
	return tx.Model(&model.Group{}).
		Where("id = ?", groupID).
		UpdateColumn("followers", gorm.Expr("GREATEST(followers + ?, 0)", delta)).Error
}

func (r *groupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepository) JoinedGroups(ctx context.Context, userID string) ([]model.Group, error) {
	return r.linkedGroups(ctx, "group_members", userID)
}

func (r *groupRepository) FollowedGroups(ctx context.Context, userID string) ([]model.Group, error) {
	return r.linkedGroups(ctx, "group_followers", userID)
}

func (r *groupRepository) linkedGroups(ctx context.Context, table, userID string) ([]model.Group, error) {
	groups := make([]model.Group, 0)
	err := r.db.WithContext(ctx).
		Select("groups.*, "+memberCountColumn).
		Joins("JOIN "+table+" l ON l.group_id = groups.id").
		Where("l.user_id = ?", userID).
		Order("l.created_at ASC").
		Find(&groups).Error
	return groups, err
}
