// services/content.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"codequest-platform/models"
	"codequest-platform/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ContentService backs the admin console: authoring of modules,
// lessons, quiz questions, achievements and shop items, plus role
// management. Requests are validated here — a typoed condition type or
// an out-of-range correct_answer never reaches the database.
type ContentService struct {
	DB       *gorm.DB
	Rewards  *RewardService
	validate *validator.Validate
}

func NewContentService(db *gorm.DB, rewards *RewardService) *ContentService {
	return &ContentService{DB: db, Rewards: rewards, validate: validator.New()}
}

// --- Modules ---

// ListModules returns every module, drafts included (admin view).
func (s *ContentService) ListModules(c *fiber.Ctx) error {
	var modules []models.Module
	if err := s.DB.Order("order_index ASC").Find(&modules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list modules", "cause": err.Error()})
	}
	return c.JSON(modules)
}

func (s *ContentService) CreateModule(c *fiber.Ctx) error {
	var req struct {
		Title       string     `json:"title" validate:"required,max=200"`
		Description string     `json:"description"`
		Icon        string     `json:"icon" validate:"max=10"`
		Color       string     `json:"color" validate:"max=32"`
		PublishAt   *time.Time `json:"publish_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	// Next consecutive order index; only the very first module starts unlocked.
	var count int64
	if err := s.DB.Model(&models.Module{}).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count modules", "cause": err.Error()})
	}

	status := models.ModuleStatusPublished
	if req.PublishAt != nil && req.PublishAt.After(time.Now()) {
		status = models.ModuleStatusScheduled
	}

	module := models.Module{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		OrderIndex:  int(count),
		IsLocked:    count > 0,
		Status:      status,
		PublishAt:   req.PublishAt,
	}
	if err := s.DB.Create(&module).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create module", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(module)
}

func (s *ContentService) UpdateModule(c *fiber.Ctx) error {
	id := c.Params("id")
	var module models.Module
	if err := s.DB.Where("id = ?", id).First(&module).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
	}

	var req struct {
		Title       *string    `json:"title" validate:"omitempty,max=200"`
		Description *string    `json:"description"`
		Icon        *string    `json:"icon" validate:"omitempty,max=10"`
		Color       *string    `json:"color" validate:"omitempty,max=32"`
		IsLocked    *bool      `json:"is_locked"`
		PublishAt   *time.Time `json:"publish_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	if req.Title != nil {
		module.Title = *req.Title
		module.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		module.Description = *req.Description
	}
	if req.Icon != nil {
		module.Icon = *req.Icon
	}
	if req.Color != nil {
		module.Color = *req.Color
	}
	if req.IsLocked != nil {
		module.IsLocked = *req.IsLocked
	}
	if req.PublishAt != nil {
		module.PublishAt = req.PublishAt
		if req.PublishAt.After(time.Now()) {
			module.Status = models.ModuleStatusScheduled
		}
	}

	if err := s.DB.Save(&module).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update module", "cause": err.Error()})
	}
	return c.JSON(module)
}

// DeleteModule refuses while lessons still reference the module —
// lessons belong to exactly one module and are never orphaned silently.
func (s *ContentService) DeleteModule(c *fiber.Ctx) error {
	id := c.Params("id")

	var lessonCount int64
	if err := s.DB.Model(&models.Lesson{}).Where("module_id = ?", id).Count(&lessonCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to check lessons", "cause": err.Error()})
	}
	if lessonCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": fmt.Sprintf("module still has %d lessons — delete them first", lessonCount),
		})
	}

	res := s.DB.Where("id = ?", id).Delete(&models.Module{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete module", "cause": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
	}
	return c.JSON(fiber.Map{"message": "module deleted"})
}

// --- Lessons ---

func (s *ContentService) CreateLesson(c *fiber.Ctx) error {
	var req struct {
		ModuleID   string  `json:"module_id" validate:"required,uuid"`
		Title      string  `json:"title" validate:"required,max=200"`
		Content    string  `json:"content"`
		VideoURL   *string `json:"video_url" validate:"omitempty,url"`
		OrderIndex *int    `json:"order_index" validate:"omitempty,min=0"`
		XPReward   int64   `json:"xp_reward" validate:"required,min=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	if err := s.DB.Where("id = ?", req.ModuleID).First(&models.Module{}).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
	}

	orderIndex := 0
	if req.OrderIndex != nil {
		orderIndex = *req.OrderIndex
	} else {
		var count int64
		s.DB.Model(&models.Lesson{}).Where("module_id = ?", req.ModuleID).Count(&count)
		orderIndex = int(count)
	}

	lesson := models.Lesson{
		ID:         uuid.NewString(),
		ModuleID:   req.ModuleID,
		Title:      req.Title,
		Slug:       slug.Make(req.Title),
		Content:    req.Content,
		VideoURL:   req.VideoURL,
		OrderIndex: orderIndex,
		XPReward:   req.XPReward,
	}
	if err := s.DB.Create(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order_index already taken in this module"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create lesson", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(lesson)
}

func (s *ContentService) UpdateLesson(c *fiber.Ctx) error {
	id := c.Params("id")
	var lesson models.Lesson
	if err := s.DB.Where("id = ?", id).First(&lesson).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
	}

	var req struct {
		Title      *string `json:"title" validate:"omitempty,max=200"`
		Content    *string `json:"content"`
		VideoURL   *string `json:"video_url" validate:"omitempty,url"`
		OrderIndex *int    `json:"order_index" validate:"omitempty,min=0"`
		XPReward   *int64  `json:"xp_reward" validate:"omitempty,min=1"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	if req.Title != nil {
		lesson.Title = *req.Title
		lesson.Slug = slug.Make(*req.Title)
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = req.VideoURL
	}
	if req.OrderIndex != nil {
		lesson.OrderIndex = *req.OrderIndex
	}
	if req.XPReward != nil {
		lesson.XPReward = *req.XPReward
	}

	if err := s.DB.Save(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order_index already taken in this module"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update lesson", "cause": err.Error()})
	}
	return c.JSON(lesson)
}

func (s *ContentService) DeleteLesson(c *fiber.Ctx) error {
	res := s.DB.Where("id = ?", c.Params("id")).Delete(&models.Lesson{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete lesson", "cause": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
	}
	return c.JSON(fiber.Map{"message": "lesson deleted"})
}

// --- Quiz questions ---

func (s *ContentService) CreateQuestion(c *fiber.Ctx) error {
	var req struct {
		ModuleID      string   `json:"module_id" validate:"required,uuid"`
		Question      string   `json:"question" validate:"required"`
		Options       []string `json:"options" validate:"required,min=2,max=6,dive,required"`
		CorrectAnswer int      `json:"correct_answer" validate:"min=0"`
		Explanation   string   `json:"explanation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}
	if req.CorrectAnswer >= len(req.Options) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "correct_answer must index into options"})
	}

	if err := s.DB.Where("id = ?", req.ModuleID).First(&models.Module{}).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
	}

	question := models.QuizQuestion{
		ID:            uuid.NewString(),
		ModuleID:      req.ModuleID,
		Question:      req.Question,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
	}
	if err := s.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create question", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func (s *ContentService) UpdateQuestion(c *fiber.Ctx) error {
	id := c.Params("id")
	var question models.QuizQuestion
	if err := s.DB.Where("id = ?", id).First(&question).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "question not found"})
	}

	var req struct {
		Question      *string  `json:"question"`
		Options       []string `json:"options" validate:"omitempty,min=2,max=6,dive,required"`
		CorrectAnswer *int     `json:"correct_answer" validate:"omitempty,min=0"`
		Explanation   *string  `json:"explanation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	if req.Question != nil {
		question.Question = *req.Question
	}
	if req.Options != nil {
		question.Options = req.Options
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Explanation != nil {
		question.Explanation = *req.Explanation
	}
	if question.CorrectAnswer >= len(question.Options) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "correct_answer must index into options"})
	}

	if err := s.DB.Save(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update question", "cause": err.Error()})
	}
	return c.JSON(question)
}

func (s *ContentService) DeleteQuestion(c *fiber.Ctx) error {
	res := s.DB.Where("id = ?", c.Params("id")).Delete(&models.QuizQuestion{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete question", "cause": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "question not found"})
	}
	return c.JSON(fiber.Map{"message": "question deleted"})
}

// --- Achievements ---

func (s *ContentService) CreateAchievement(c *fiber.Ctx) error {
	var req struct {
		Name           string  `json:"name" validate:"required,max=200"`
		Description    string  `json:"description"`
		Icon           string  `json:"icon" validate:"max=10"`
		ConditionType  string  `json:"condition_type" validate:"required,oneof=lesson_complete boss_defeat perfect_score module_complete custom"`
		ConditionValue *string `json:"condition_value"`
		XPReward       int64   `json:"xp_reward" validate:"min=0"`
		CoinReward     int64   `json:"coin_reward" validate:"min=0"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	achievement := models.Achievement{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		Icon:           req.Icon,
		ConditionType:  models.ConditionType(req.ConditionType),
		ConditionValue: req.ConditionValue,
		XPReward:       req.XPReward,
		CoinReward:     req.CoinReward,
	}
	if err := s.DB.Create(&achievement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create achievement", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(achievement)
}

func (s *ContentService) UpdateAchievement(c *fiber.Ctx) error {
	id := c.Params("id")
	var achievement models.Achievement
	if err := s.DB.Where("id = ?", id).First(&achievement).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "achievement not found"})
	}

	var req struct {
		Name           *string `json:"name" validate:"omitempty,max=200"`
		Description    *string `json:"description"`
		Icon           *string `json:"icon" validate:"omitempty,max=10"`
		ConditionType  *string `json:"condition_type" validate:"omitempty,oneof=lesson_complete boss_defeat perfect_score module_complete custom"`
		ConditionValue *string `json:"condition_value"`
		XPReward       *int64  `json:"xp_reward" validate:"omitempty,min=0"`
		CoinReward     *int64  `json:"coin_reward" validate:"omitempty,min=0"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	if req.Name != nil {
		achievement.Name = *req.Name
	}
	if req.Description != nil {
		achievement.Description = *req.Description
	}
	if req.Icon != nil {
		achievement.Icon = *req.Icon
	}
	if req.ConditionType != nil {
		achievement.ConditionType = models.ConditionType(*req.ConditionType)
	}
	if req.ConditionValue != nil {
		achievement.ConditionValue = req.ConditionValue
	}
	if req.XPReward != nil {
		achievement.XPReward = *req.XPReward
	}
	if req.CoinReward != nil {
		achievement.CoinReward = *req.CoinReward
	}

	if err := s.DB.Save(&achievement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update achievement", "cause": err.Error()})
	}
	return c.JSON(achievement)
}

func (s *ContentService) DeleteAchievement(c *fiber.Ctx) error {
	res := s.DB.Where("id = ?", c.Params("id")).Delete(&models.Achievement{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete achievement", "cause": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "achievement not found"})
	}
	return c.JSON(fiber.Map{"message": "achievement deleted"})
}

// --- Shop items ---

func (s *ContentService) CreateShopItem(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name" validate:"required,max=200"`
		Description string `json:"description"`
		Type        string `json:"type" validate:"required,oneof=avatar frame asset_pack theme"`
		Price       int64  `json:"price" validate:"min=0"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	item := models.ShopItem{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Type:        models.ItemType(req.Type),
		Price:       req.Price,
		IsActive:    true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if err := s.DB.Create(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create shop item", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *ContentService) UpdateShopItem(c *fiber.Ctx) error {
	id := c.Params("id")
	var item models.ShopItem
	if err := s.DB.Where("id = ?", id).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "shop item not found"})
	}

	var req struct {
		Name        *string `json:"name" validate:"omitempty,max=200"`
		Description *string `json:"description"`
		Type        *string `json:"type" validate:"omitempty,oneof=avatar frame asset_pack theme"`
		Price       *int64  `json:"price" validate:"omitempty,min=0"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Type != nil {
		item.Type = models.ItemType(*req.Type)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.DB.Save(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update shop item", "cause": err.Error()})
	}
	return c.JSON(item)
}

func (s *ContentService) DeleteShopItem(c *fiber.Ctx) error {
	res := s.DB.Where("id = ?", c.Params("id")).Delete(&models.ShopItem{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete shop item", "cause": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "shop item not found"})
	}
	return c.JSON(fiber.Map{"message": "shop item deleted"})
}

// UploadItemImage stores a shop item image on R2 and saves its URL.
func (s *ContentService) UploadItemImage(c *fiber.Ctx) error {
	return s.uploadItemFile(c, "image", "shop/images")
}

// UploadItemAsset stores an asset-pack archive on R2 (asset_pack only).
func (s *ContentService) UploadItemAsset(c *fiber.Ctx) error {
	return s.uploadItemFile(c, "asset", "shop/assets")
}

func (s *ContentService) uploadItemFile(c *fiber.Ctx, field, prefix string) error {
	id := c.Params("id")
	var item models.ShopItem
	if err := s.DB.Where("id = ?", id).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "shop item not found"})
	}
	if field == "asset" && item.Type != models.ItemTypeAssetPack {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "asset uploads are for asset_pack items only"})
	}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("missing %q file field", field)})
	}

	key := fmt.Sprintf("%s/%s-%s", prefix, item.ID, slug.Make(fileHeader.Filename))
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed", "cause": err.Error()})
	}

	column := "image_url"
	if field == "asset" {
		column = "asset_download_url"
	}
	if err := s.DB.Model(&item).Update(column, url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save URL", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"url": url})
}

// --- Users & roles ---

func (s *ContentService) ListUsers(c *fiber.Ctx) error {
	var profiles []models.Profile
	if err := s.DB.Order("created_at ASC").Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list users", "cause": err.Error()})
	}

	var roles []models.UserRole
	if err := s.DB.Find(&roles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list roles", "cause": err.Error()})
	}
	roleByUser := make(map[string]models.AppRole, len(roles))
	for _, r := range roles {
		roleByUser[r.UserID] = r.Role
	}

	type UserSummary struct {
		UserID    string         `json:"user_id"`
		Name      string         `json:"name"`
		Level     int            `json:"level"`
		XPTotal   int64          `json:"xp_total"`
		Role      models.AppRole `json:"role"`
		CreatedAt time.Time      `json:"created_at"`
	}
	res := make([]UserSummary, len(profiles))
	for i, p := range profiles {
		role, ok := roleByUser[p.UserID]
		if !ok {
			role = models.RoleStudent
		}
		res[i] = UserSummary{
			UserID:    p.UserID,
			Name:      p.Name,
			Level:     p.Level,
			XPTotal:   p.XPTotal,
			Role:      role,
			CreatedAt: p.CreatedAt,
		}
	}
	return c.JSON(res)
}

func (s *ContentService) SetUserRole(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id" validate:"required"`
		Role   string `json:"role" validate:"required,oneof=admin moderator student"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}

	var role models.UserRole
	err := s.DB.Where("user_id = ?", req.UserID).First(&role).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		role = models.UserRole{
			ID:     uuid.NewString(),
			UserID: req.UserID,
			Role:   models.AppRole(req.Role),
		}
		err = s.DB.Create(&role).Error
	case err == nil:
		role.Role = models.AppRole(req.Role)
		err = s.DB.Save(&role).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to set role", "cause": err.Error()})
	}

	log.Printf("🔑 Role set: %s → %s", req.UserID, req.Role)
	return c.JSON(fiber.Map{"message": "role updated", "user_id": req.UserID, "role": req.Role})
}

// GrantXP is the admin escape hatch for manual XP/coin corrections.
func (s *ContentService) GrantXP(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id" validate:"required"`
		XP     int64  `json:"xp" validate:"min=0"`
		Coins  int64  `json:"coins" validate:"min=0"`
		Reason string `json:"reason" validate:"max=255"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
	}
	if req.XP == 0 && req.Coins == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "nothing to grant"})
	}

	reason := req.Reason
	if reason == "" {
		reason = "admin_grant"
	}
	profile, err := s.Rewards.GrantRewards(req.UserID, req.XP, req.Coins, reason)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "grant failed", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{
		"message": "rewards granted",
		"user_id": req.UserID,
		"xp":      profile.XPTotal,
		"level":   profile.Level,
		"coins":   profile.Coins,
	})
}
