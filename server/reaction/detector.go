package reaction

import (
	"context"
	"log/slog"
)

// Detector は移動方向へのカプセルスイープで障害物との接触を検出し、相手に通知する。
type Detector struct {
	self         ActorID
	movement     Movement
	mesh         Mesh
	sweeper      Sweeper
	capabilities Capabilities
	settings     Settings
}

func NewDetector(self ActorID, movement Movement, mesh Mesh, sweeper Sweeper, capabilities Capabilities, settings Settings) *Detector {
	return &Detector{
		self:         self,
		movement:     movement,
		mesh:         mesh,
		sweeper:      sweeper,
		capabilities: capabilities,
		settings:     settings,
	}
}

// ShouldTrace は現在の速さが検出しきい値を超えているかを返す
func (d *Detector) ShouldTrace() bool {
	return d.movement.Velocity().Len() > d.settings.minimumTraceVelocity()
}

// Trace はスイープを実行し、通知したHitRecordをスイープ順に返す
func (d *Detector) Trace(ctx context.Context) []HitRecord {
	if !d.ShouldTrace() {
		return nil
	}

	velocity := d.movement.Velocity()
	halfHeight := d.movement.CapsuleHalfHeight()
	rotation := d.movement.Rotation()
	start := d.movement.Location().Add(rotation.Rotate(UpVector).Scale(halfHeight / 2))

	radius := d.settings.BumpDetectionRadius
	var distance float64
	switch {
	case d.movement.LocomotionAction() == ActionSliding:
		radius *= 2
		distance = d.settings.MaxSlideToCoverDetectionDistance
	case !d.mesh.IsPlayingRootMotion():
		distance = d.settings.MaxBumpDetectionDistance
	}

	hits := d.sweeper.SweepMulti(ctx, SweepQuery{
		Start:       start,
		End:         start.Add(velocity.Scale(distance)),
		Radius:      radius,
		HalfHeight:  halfHeight / 2,
		ObjectTypes: d.settings.BumpObjectTypes,
		Ignore:      []ActorID{d.self},
	})
	if len(hits) == 0 {
		return nil
	}

	gait := d.movement.DesiredGait()
	severity := ClassifyVelocity(velocity, d.movement.LocomotionMode(), gait)
	self := d.capabilities.Resolve(d.self)

	records := make([]HitRecord, 0, len(hits))
	for _, hit := range hits {
		capability := d.capabilities.Resolve(hit.Actor)
		if capability.Kind == CapabilityNone || capability.Collider == nil {
			if d.settings.Debug {
				slog.DebugContext(ctx, "bump target has no reaction capability", "character", d.self, "actor", hit.Actor)
			}
			continue
		}

		origin, ok := d.sweeper.SweepSingle(ctx, SweepQuery{
			Start:       hit.ImpactPoint,
			End:         start,
			Radius:      radius,
			HalfHeight:  halfHeight / 2,
			ObjectTypes: d.settings.BumpObjectTypes,
			Ignore:      []ActorID{hit.Actor},
		})
		if !ok {
			continue
		}

		record := d.buildRecord(hit, origin, capability.Collider, self.Collider, rotation, velocity)
		record.Velocity = severity
		record.Side = SideRight
		record.Form = FormBlunt
		if capability.Dispatch(ctx, record, gait, SideRight, FormBlunt) {
			records = append(records, record)
		}
	}
	return records
}

// buildRecord はヒットと逆方向スイープの結果からHitRecordを組み立てる。
// impactorの衝撃は質量比でスケールしたoriginの速度。
func (d *Detector) buildRecord(hit, origin SweepHit, target, self Collider, selfRotation Quat, selfVelocity Vec3) HitRecord {
	originMass := 0.0
	originVelocity := selfVelocity
	if self != nil {
		originMass = self.Mass()
		originVelocity = self.Velocity()
	}
	targetMass := target.Mass()

	ratio := 1.0
	if targetMass > 0 && originMass > 0 {
		ratio = originMass / targetMass
	}

	return HitRecord{
		Impactor: HitSide{
			Actor:        hit.Actor,
			Location:     hit.Location,
			ImpactPoint:  hit.ImpactPoint,
			ImpactNormal: hit.ImpactNormal,
			Bone:         hit.Bone,
			Mass:         targetMass,
			Velocity:     target.Velocity(),
			Impulse:      originVelocity.Scale(ratio / impulseScale),
			Rotation:     hit.Rotation,
		},
		Origin: HitSide{
			Actor:        d.self,
			Location:     origin.Location,
			ImpactPoint:  origin.ImpactPoint,
			ImpactNormal: origin.ImpactNormal,
			Bone:         origin.Bone,
			Mass:         originMass,
			Velocity:     originVelocity,
			Rotation:     selfRotation,
		},
	}
}
