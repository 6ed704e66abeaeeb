package reaction

import (
	"context"
	"errors"
	"fmt"

	"flinch/utils"
)

// Validator はクライアントから転送されたリアクション要求を検証する
type Validator interface {
	Validate(ctx context.Context, req Request) error
}

// PermissiveValidator はすべての要求を受け入れる
type PermissiveValidator struct{}

func (PermissiveValidator) Validate(context.Context, Request) error { return nil }

// SanityValidator はカテゴリと数値の妥当性だけを確認する
type SanityValidator struct{}

func (SanityValidator) Validate(_ context.Context, req Request) error {
	if !req.Category.IsValid() {
		return fmt.Errorf("unknown category %d", req.Category)
	}
	for _, v := range []Vec3{
		req.Hit.Impactor.ImpactPoint, req.Hit.Impactor.ImpactNormal, req.Hit.Impactor.Impulse,
		req.Hit.Origin.ImpactPoint, req.Hit.Origin.Velocity,
	} {
		if !finiteVec(v) {
			return fmt.Errorf("non-finite vector %+v", v)
		}
	}
	if !utils.Finite(req.Attack.BaseDamage, req.Attack.StrengthScalar) {
		return errors.New("non-finite attack params")
	}
	if req.SyncedIndex < 0 {
		return fmt.Errorf("negative synced index %d", req.SyncedIndex)
	}
	return nil
}

func finiteVec(v Vec3) bool {
	return utils.Finite(v.X, v.Y, v.Z)
}
