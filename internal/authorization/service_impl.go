package authorization

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	Shops    shopdomain.Service
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	shops    shopdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		shops:    p.Shops,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, key string) error {
	allowed, err := s.HasPermission(ctx, key)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

// HasPermission resolves the caller's role in the active shop and checks
// key against the policy for that role.
func (s *ServiceImpl) HasPermission(ctx context.Context, key string) (bool, error) {
	object, action, err := splitKey(key)
	if err != nil {
		return false, err
	}

	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return false, err
	}
	if scope.UserID == 0 {
		return false, ErrInvalidActor
	}

	role, err := s.shops.MemberRole(ctx)
	if err != nil {
		if errors.Is(err, shopdomain.ErrNotMember) {
			return false, nil
		}
		return false, err
	}

	subject := fmt.Sprintf("user:%s", scope.UserID.String())
	roleName := fmt.Sprintf("role:%s", strings.ToLower(role))
	domain := fmt.Sprintf("shop:%s", scope.ShopID.String())
	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return false, err
	}
	if !allowed {
		s.log.Info("permission denied",
			zap.String("subject", subject),
			zap.String("shop_id", scope.ShopID.String()),
			zap.String("permission", key),
		)
	}
	return allowed, nil
}

// ensureGrouping keeps exactly one role link per subject and shop so role
// changes in shop_members take effect on the next check.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func splitKey(key string) (string, string, error) {
	key = strings.TrimSpace(key)
	object, action, ok := strings.Cut(key, ".")
	if !ok || object == "" || action == "" {
		return "", "", ErrInvalidPermission
	}
	return object, action, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	grants := map[string][]string{
		"role:owner": AllPermissions,
		"role:admin": AllPermissions,
		"role:senior_mechanic": {
			PermPartsView,
			PermWorkOrdersView,
			PermWorkOrdersCreate,
			PermWorkOrdersEdit,
			PermWorkOrdersChangeStatus,
			PermPurchaseOrdersView,
			PermPaymentsView,
		},
		"role:mechanic": {
			PermPartsView,
			PermWorkOrdersView,
			PermWorkOrdersEdit,
		},
	}

	for role, keys := range grants {
		for _, key := range keys {
			object, action, err := splitKey(key)
			if err != nil {
				return err
			}
			has, err := enforcer.HasPolicy(role, object, action)
			if err != nil {
				return err
			}
			if has {
				continue
			}
			if _, err := enforcer.AddPolicy(role, object, action); err != nil {
				return err
			}
		}
	}
	return nil
}
