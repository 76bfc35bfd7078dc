package restaurants

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"outletdesk/internal/notifications"
	"outletdesk/internal/shared/constants"
	"outletdesk/pkg/cache"
	"outletdesk/pkg/logger"
	"outletdesk/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrMenuCategoryNotFound    = errors.New("menu category not found")
	ErrMenuSubCategoryNotFound = errors.New("menu sub-category not found")
	ErrMenuCategoryInUse       = errors.New("menu category still has items or sub-categories")
	ErrMenuSubCategoryInUse    = errors.New("menu sub-category still has items")
	ErrUnknownMenuCategory     = errors.New("menu category or sub-category does not exist in this outlet")
	ErrSubCategoryMismatch     = errors.New("sub-category does not belong to the given category")
	ErrMenuItemNotFound        = errors.New("menu item not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrUnknownMenuItem         = errors.New("one or more menu items do not exist in this outlet")
	ErrMenuItemUnavailable     = errors.New("menu item is not available")
)

type Service interface {
	ListMenuCategories(ctx context.Context, outletID uuid.UUID) ([]MenuCategory, error)
	GetMenuCategory(ctx context.Context, outletID, id uuid.UUID) (*MenuCategory, error)
	CreateMenuCategory(ctx context.Context, outletID uuid.UUID, req CreateMenuCategoryRequest) (*MenuCategory, error)
	UpdateMenuCategory(ctx context.Context, outletID, id uuid.UUID, req UpdateMenuCategoryRequest) (*MenuCategory, error)
	DeleteMenuCategory(ctx context.Context, outletID, id uuid.UUID) error
	ListMenuSubCategories(ctx context.Context, outletID uuid.UUID, query MenuSubCategoryQuery) ([]MenuSubCategory, error)
	GetMenuSubCategory(ctx context.Context, outletID, id uuid.UUID) (*MenuSubCategory, error)
	CreateMenuSubCategory(ctx context.Context, outletID uuid.UUID, req CreateMenuSubCategoryRequest) (*MenuSubCategory, error)
	UpdateMenuSubCategory(ctx context.Context, outletID, id uuid.UUID, req UpdateMenuSubCategoryRequest) (*MenuSubCategory, error)
	DeleteMenuSubCategory(ctx context.Context, outletID, id uuid.UUID) error

	ListMenuItems(ctx context.Context, outletID uuid.UUID, query MenuQuery) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, outletID, id uuid.UUID) (*MenuItem, error)
	CreateMenuItem(ctx context.Context, outletID uuid.UUID, req CreateMenuItemRequest) (*MenuItem, error)
	UpdateMenuItem(ctx context.Context, outletID, id uuid.UUID, req UpdateMenuItemRequest) (*MenuItem, error)
	DeleteMenuItem(ctx context.Context, outletID, id uuid.UUID) error

	CreateOrder(ctx context.Context, outletID uuid.UUID, req CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, outletID, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, outletID uuid.UUID, query OrderListQuery) ([]Order, int64, error)
	UpdateOrder(ctx context.Context, outletID, id uuid.UUID, req UpdateOrderRequest) (*Order, error)
	AdvanceOrder(ctx context.Context, outletID, id uuid.UUID) (*Order, error)
	DeleteOrder(ctx context.Context, outletID, id uuid.UUID) error
	KOT(ctx context.Context, outletID uuid.UUID) (*KOTResponse, error)
}

type service struct {
	repo      Repository
	cache     cache.Service
	publisher notifications.Publisher
	now       func() time.Time
	log       *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, publisher notifications.Publisher) Service {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &service{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		now:       time.Now,
		log:       logger.GetDefault(),
	}
}

func (s *service) invalidate(ctx context.Context, outletID uuid.UUID, menu bool) {
	if s.cache == nil {
		return
	}
	id := outletID.String()
	keys := []string{constants.BuildDashboardKey(id)}
	if menu {
		keys = append(keys, constants.BuildMenuItemsKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate restaurant cache", "outlet_id", id, "error", err.Error())
	}
}

// categories changed: item listings embed category names too
func (s *service) invalidateCategories(ctx context.Context, outletID uuid.UUID) {
	if s.cache == nil {
		return
	}
	id := outletID.String()
	if err := s.cache.Delete(ctx, constants.BuildMenuCategoriesKey(id), constants.BuildMenuItemsKey(id)); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate menu category cache", "outlet_id", id, "error", err.Error())
	}
}

// Menu categories

func (s *service) ListMenuCategories(ctx context.Context, outletID uuid.UUID) ([]MenuCategory, error) {
	if s.cache == nil {
		return s.repo.ListMenuCategories(ctx, outletID)
	}
	var categories []MenuCategory
	err := s.cache.GetOrSet(ctx, constants.BuildMenuCategoriesKey(outletID.String()), constants.TTL_MENU_CATEGORIES,
		func() (interface{}, error) { return s.repo.ListMenuCategories(ctx, outletID) }, &categories)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu categories: %w", err)
	}
	return categories, nil
}

func (s *service) GetMenuCategory(ctx context.Context, outletID, id uuid.UUID) (*MenuCategory, error) {
	return s.repo.GetMenuCategory(ctx, outletID, id)
}

func (s *service) CreateMenuCategory(ctx context.Context, outletID uuid.UUID, req CreateMenuCategoryRequest) (*MenuCategory, error) {
	category := &MenuCategory{
		OutletID:    outletID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
	}
	if err := s.repo.CreateMenuCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create menu category: %w", err)
	}
	s.invalidateCategories(ctx, outletID)
	return category, nil
}

func (s *service) UpdateMenuCategory(ctx context.Context, outletID, id uuid.UUID, req UpdateMenuCategoryRequest) (*MenuCategory, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Image != nil {
		updates["image"] = strings.TrimSpace(*req.Image)
	}
	if len(updates) == 0 {
		return s.repo.GetMenuCategory(ctx, outletID, id)
	}

	category, err := s.repo.UpdateMenuCategory(ctx, outletID, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidateCategories(ctx, outletID)
	return category, nil
}

func (s *service) DeleteMenuCategory(ctx context.Context, outletID, id uuid.UUID) error {
	items, err := s.repo.CountItemsInCategory(ctx, outletID, id)
	if err != nil {
		return fmt.Errorf("failed to check menu category usage: %w", err)
	}
	subs, err := s.repo.CountSubCategoriesInCategory(ctx, outletID, id)
	if err != nil {
		return fmt.Errorf("failed to check menu category usage: %w", err)
	}
	if items > 0 || subs > 0 {
		return ErrMenuCategoryInUse
	}
	if err := s.repo.DeleteMenuCategory(ctx, outletID, id); err != nil {
		return err
	}
	s.invalidateCategories(ctx, outletID)
	return nil
}

// Menu sub-categories

func (s *service) ListMenuSubCategories(ctx context.Context, outletID uuid.UUID, query MenuSubCategoryQuery) ([]MenuSubCategory, error) {
	var categoryID *uuid.UUID
	if query.CategoryID != "" {
		id := parseUUIDOrNil(query.CategoryID)
		categoryID = &id
	}
	return s.repo.ListMenuSubCategories(ctx, outletID, categoryID)
}

func (s *service) GetMenuSubCategory(ctx context.Context, outletID, id uuid.UUID) (*MenuSubCategory, error) {
	return s.repo.GetMenuSubCategory(ctx, outletID, id)
}

func (s *service) CreateMenuSubCategory(ctx context.Context, outletID uuid.UUID, req CreateMenuSubCategoryRequest) (*MenuSubCategory, error) {
	categoryID := parseUUIDOrNil(req.CategoryID)
	if _, err := s.repo.GetMenuCategory(ctx, outletID, categoryID); err != nil {
		return nil, err
	}

	sub := &MenuSubCategory{
		OutletID:    outletID,
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
	}
	if err := s.repo.CreateMenuSubCategory(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create menu sub-category: %w", err)
	}
	s.invalidateCategories(ctx, outletID)
	return sub, nil
}

func (s *service) UpdateMenuSubCategory(ctx context.Context, outletID, id uuid.UUID, req UpdateMenuSubCategoryRequest) (*MenuSubCategory, error) {
	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		categoryID := parseUUIDOrNil(*req.CategoryID)
		current, err := s.repo.GetMenuSubCategory(ctx, outletID, id)
		if err != nil {
			return nil, err
		}
		if categoryID != current.CategoryID {
			if _, err := s.repo.GetMenuCategory(ctx, outletID, categoryID); err != nil {
				return nil, err
			}
			// items would keep pointing at the old category
			items, err := s.repo.CountItemsInSubCategory(ctx, outletID, id)
			if err != nil {
				return nil, fmt.Errorf("failed to check menu sub-category usage: %w", err)
			}
			if items > 0 {
				return nil, ErrMenuSubCategoryInUse
			}
			updates["category_id"] = categoryID
		}
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Image != nil {
		updates["image"] = strings.TrimSpace(*req.Image)
	}
	if len(updates) == 0 {
		return s.repo.GetMenuSubCategory(ctx, outletID, id)
	}

	sub, err := s.repo.UpdateMenuSubCategory(ctx, outletID, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidateCategories(ctx, outletID)
	return sub, nil
}

func (s *service) DeleteMenuSubCategory(ctx context.Context, outletID, id uuid.UUID) error {
	items, err := s.repo.CountItemsInSubCategory(ctx, outletID, id)
	if err != nil {
		return fmt.Errorf("failed to check menu sub-category usage: %w", err)
	}
	if items > 0 {
		return ErrMenuSubCategoryInUse
	}
	if err := s.repo.DeleteMenuSubCategory(ctx, outletID, id); err != nil {
		return err
	}
	s.invalidateCategories(ctx, outletID)
	return nil
}

// parseUUIDOrNil returns uuid.Nil for malformed input; callers pass values checked by the uuid binding tag
func parseUUIDOrNil(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// classify resolves an item's placement. A sub-category alone implies its category,
// and a category given without a sub-category leaves the item directly under it.
func (s *service) classify(ctx context.Context, outletID uuid.UUID, categoryID, subCategoryID string) (*uuid.UUID, *uuid.UUID, error) {
	if subCategoryID != "" {
		sub, err := s.repo.GetMenuSubCategory(ctx, outletID, parseUUIDOrNil(subCategoryID))
		if err != nil {
			if errors.Is(err, ErrMenuSubCategoryNotFound) {
				return nil, nil, ErrUnknownMenuCategory
			}
			return nil, nil, err
		}
		if categoryID != "" && parseUUIDOrNil(categoryID) != sub.CategoryID {
			return nil, nil, ErrSubCategoryMismatch
		}
		return &sub.CategoryID, &sub.ID, nil
	}
	if categoryID == "" {
		return nil, nil, nil
	}
	category, err := s.repo.GetMenuCategory(ctx, outletID, parseUUIDOrNil(categoryID))
	if err != nil {
		if errors.Is(err, ErrMenuCategoryNotFound) {
			return nil, nil, ErrUnknownMenuCategory
		}
		return nil, nil, err
	}
	return &category.ID, nil, nil
}

// nullable keeps a nil id as SQL NULL in an updates map
func nullable(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// Menu

func (s *service) menu(ctx context.Context, outletID uuid.UUID) ([]MenuItem, error) {
	fetch := func() (interface{}, error) {
		return s.repo.ListMenuItems(ctx, outletID)
	}
	if s.cache == nil {
		items, err := fetch()
		if err != nil {
			return nil, err
		}
		return items.([]MenuItem), nil
	}

	var items []MenuItem
	if err := s.cache.GetOrSet(ctx, constants.BuildMenuItemsKey(outletID.String()), constants.TTL_MENU_ITEMS, fetch, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FilterMenu applies the menu query in memory over the cached menu
func FilterMenu(items []MenuItem, query MenuQuery) []MenuItem {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	dietary := strings.ToLower(strings.TrimSpace(query.Dietary))

	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if !matchesRef(query.Category, it.CategoryID, it.categoryName()) {
			continue
		}
		if !matchesRef(query.SubCategory, it.SubCategoryID, it.subCategoryName()) {
			continue
		}
		if query.Available != nil && it.Available != *query.Available {
			continue
		}
		if dietary != "" && !slices.ContainsFunc(it.DietaryTags, func(tag string) bool { return strings.ToLower(tag) == dietary }) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Name+" "+it.Description), search) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// matchesRef reports whether want is empty or names the referenced row by id or name
func matchesRef(want string, id *uuid.UUID, name string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	if name != "" && strings.EqualFold(name, want) {
		return true
	}
	return id != nil && strings.EqualFold(id.String(), want)
}

func normalizeTags(tags []string) datatypes.JSONSlice[string] {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return datatypes.JSONSlice[string](out)
}

func (s *service) ListMenuItems(ctx context.Context, outletID uuid.UUID, query MenuQuery) ([]MenuItem, error) {
	items, err := s.menu(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return FilterMenu(items, query), nil
}

func (s *service) GetMenuItem(ctx context.Context, outletID, id uuid.UUID) (*MenuItem, error) {
	return s.repo.GetMenuItem(ctx, outletID, id)
}

func (s *service) CreateMenuItem(ctx context.Context, outletID uuid.UUID, req CreateMenuItemRequest) (*MenuItem, error) {
	categoryID, subCategoryID, err := s.classify(ctx, outletID, req.CategoryID, req.SubCategoryID)
	if err != nil {
		return nil, err
	}

	item := &MenuItem{
		OutletID:      outletID,
		Name:          strings.TrimSpace(req.Name),
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
		Description:   strings.TrimSpace(req.Description),
		Price:         req.Price,
		DietaryTags:   normalizeTags(req.DietaryTags),
		Available:     true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	s.invalidate(ctx, outletID, true)
	return item, nil
}

func (s *service) UpdateMenuItem(ctx context.Context, outletID, id uuid.UUID, req UpdateMenuItemRequest) (*MenuItem, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	switch {
	case req.CategoryID != nil:
		sub := ""
		if req.SubCategoryID != nil {
			sub = *req.SubCategoryID
		}
		categoryID, subCategoryID, err := s.classify(ctx, outletID, *req.CategoryID, sub)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = nullable(categoryID)
		updates["sub_category_id"] = nullable(subCategoryID)
	case req.SubCategoryID != nil && *req.SubCategoryID == "":
		updates["sub_category_id"] = nil
	case req.SubCategoryID != nil:
		categoryID, subCategoryID, err := s.classify(ctx, outletID, "", *req.SubCategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = nullable(categoryID)
		updates["sub_category_id"] = nullable(subCategoryID)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.DietaryTags != nil {
		updates["dietary_tags"] = normalizeTags(*req.DietaryTags)
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if len(updates) == 0 {
		return s.repo.GetMenuItem(ctx, outletID, id)
	}

	item, err := s.repo.UpdateMenuItem(ctx, outletID, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, outletID, true)
	return item, nil
}

func (s *service) DeleteMenuItem(ctx context.Context, outletID, id uuid.UUID) error {
	if err := s.repo.DeleteMenuItem(ctx, outletID, id); err != nil {
		return err
	}
	s.invalidate(ctx, outletID, true)
	return nil
}

// Orders

// BuildOrderItems prices each line from the menu; quantities below one are raised to one
func BuildOrderItems(menu []MenuItem, lines []OrderItemRequest) ([]OrderItem, error) {
	byID := make(map[uuid.UUID]MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMenuItem, line.MenuItemID)
		}
		m, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMenuItem, id)
		}
		if !m.Available {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, m.Name)
		}
		qty := max(line.Quantity, 1)
		items = append(items, OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Quantity:   qty,
			Price:      m.Price,
			Total:      float64(qty) * m.Price,
		})
	}
	return items, nil
}

func (s *service) CreateOrder(ctx context.Context, outletID uuid.UUID, req CreateOrderRequest) (*Order, error) {
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		if id, err := uuid.Parse(line.MenuItemID); err == nil {
			ids = append(ids, id)
		}
	}
	menu, err := s.repo.FindMenuItems(ctx, outletID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	items, err := BuildOrderItems(menu, req.Items)
	if err != nil {
		return nil, err
	}

	order := &Order{
		OutletID:     outletID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Table:        strings.TrimSpace(req.Table),
		Status:       OrderStatusPending,
		Items:        items,
		Total:        OrderTotal(items),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.log.InfoContext(ctx, "order created", "order_id", order.ID.String(), "order_number", order.Number, "outlet_id", outletID.String())
	s.invalidate(ctx, outletID, false)
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, outletID, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, outletID, id)
}

func (s *service) ListOrders(ctx context.Context, outletID uuid.UUID, query OrderListQuery) ([]Order, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}
	return s.repo.ListOrders(ctx, outletID, query)
}

// setStatus records the timestamps that go with a terminal status
func (s *service) setStatus(o *Order, to OrderStatus) {
	o.Status = to
	now := s.now()
	switch to {
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}
}

func (s *service) changed(ctx context.Context, o *Order, from OrderStatus) {
	if o.Status == from {
		return
	}
	metrics.IncOrderTransition(string(o.Status))
	s.log.LogOrderStatusChanged(ctx, o.ID.String(), o.Number, string(from), string(o.Status))

	event := notifications.NewOrderEvent(o.OutletID, notifications.OrderPayload{
		OrderID:     o.ID,
		OrderNumber: o.Number,
		From:        string(from),
		To:          string(o.Status),
		Total:       o.Total,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WarnContext(ctx, "failed to publish order event", "order_id", o.ID.String(), "error", err.Error())
	}
}

func (s *service) UpdateOrder(ctx context.Context, outletID, id uuid.UUID, req UpdateOrderRequest) (*Order, error) {
	var from OrderStatus
	order, err := s.repo.MutateOrder(ctx, outletID, id, func(o *Order) error {
		from = o.Status
		if req.Status != nil && !CanTransition(o.Status, *req.Status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, *req.Status)
		}
		if req.CustomerName != nil {
			o.CustomerName = strings.TrimSpace(*req.CustomerName)
		}
		if req.Table != nil {
			o.Table = strings.TrimSpace(*req.Table)
		}
		if req.Status != nil && *req.Status != o.Status {
			s.setStatus(o, *req.Status)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, order, from)
	s.invalidate(ctx, outletID, false)
	return order, nil
}

func (s *service) AdvanceOrder(ctx context.Context, outletID, id uuid.UUID) (*Order, error) {
	var from OrderStatus
	order, err := s.repo.MutateOrder(ctx, outletID, id, func(o *Order) error {
		from = o.Status
		next, err := Advance(o.Status)
		if err != nil {
			return err
		}
		s.setStatus(o, next)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, order, from)
	s.invalidate(ctx, outletID, false)
	return order, nil
}

func (s *service) DeleteOrder(ctx context.Context, outletID, id uuid.UUID) error {
	if err := s.repo.DeleteOrder(ctx, outletID, id); err != nil {
		return err
	}
	s.invalidate(ctx, outletID, false)
	return nil
}

func (s *service) KOT(ctx context.Context, outletID uuid.UUID) (*KOTResponse, error) {
	orders, err := s.repo.ListOpenOrders(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open orders: %w", err)
	}
	return BuildKOT(orders), nil
}
