package domain

import (
	"flinch/server/reaction"
)

// ReactionRequestPayload はクライアントからサーバーへのリアクション要求
//
//	category    u8
//	character   [16]byte
//	hit         HitRecord
//	baseDamage  f32
//	strength    tag
//	scalar      f32
//	gait        tag
//	syncedIndex u16
type ReactionRequestPayload struct {
	Request reaction.Request
}

// ReactionStartPayload はサーバーが確定したリアクション開始
//
//	category  u8
//	seq       u32
//	character [16]byte
//	hit       HitRecord
//	candidate Candidate
//	state     State
type ReactionStartPayload struct {
	Start reaction.Start
}

// ReactionStatePayload はキャラクターのリアクション状態
//
//	character [16]byte
//	state     State
type ReactionStatePayload struct {
	Character reaction.ActorID
	State     reaction.State
}

// ParseReactionRequestPayload はバイト列からReactionRequestPayloadをパースする
func ParseReactionRequestPayload(data []byte) (*ReactionRequestPayload, error) {
	r := newPayloadReader(data)
	req := reaction.Request{
		Category:  reaction.Category(r.u8()),
		Character: reaction.ActorID(r.id()),
		Hit:       readHitRecord(r),
		Attack: reaction.AttackParams{
			BaseDamage:     r.f32(),
			Strength:       r.tag(),
			StrengthScalar: r.f32(),
		},
		Gait:        r.tag(),
		SyncedIndex: int(r.u16()),
	}
	if r.err != nil {
		return nil, r.err
	}
	return &ReactionRequestPayload{Request: req}, nil
}

// Encode はReactionRequestPayloadをバイト列にエンコードする
func (p *ReactionRequestPayload) Encode() []byte {
	w := &payloadWriter{}
	req := p.Request
	w.u8(uint8(req.Category))
	w.id(req.Character)
	writeHitRecord(w, req.Hit)
	w.f32(req.Attack.BaseDamage)
	w.tag(req.Attack.Strength)
	w.f32(req.Attack.StrengthScalar)
	w.tag(req.Gait)
	w.u16(uint16(req.SyncedIndex))
	return w.bytes()
}

// ParseReactionStartPayload はバイト列からReactionStartPayloadをパースする
func ParseReactionStartPayload(data []byte) (*ReactionStartPayload, error) {
	r := newPayloadReader(data)
	st := reaction.Start{
		Category:  reaction.Category(r.u8()),
		Seq:       r.u32(),
		Character: reaction.ActorID(r.id()),
		Hit:       readHitRecord(r),
		Candidate: readCandidate(r),
		State:     readState(r),
	}
	if r.err != nil {
		return nil, r.err
	}
	return &ReactionStartPayload{Start: st}, nil
}

// Encode はReactionStartPayloadをバイト列にエンコードする
func (p *ReactionStartPayload) Encode() []byte {
	w := &payloadWriter{}
	st := p.Start
	w.u8(uint8(st.Category))
	w.u32(st.Seq)
	w.id(st.Character)
	writeHitRecord(w, st.Hit)
	writeCandidate(w, st.Candidate)
	writeState(w, st.State)
	return w.bytes()
}

// ParseReactionStatePayload はバイト列からReactionStatePayloadをパースする
func ParseReactionStatePayload(data []byte) (*ReactionStatePayload, error) {
	r := newPayloadReader(data)
	p := &ReactionStatePayload{
		Character: reaction.ActorID(r.id()),
		State:     readState(r),
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

// Encode はReactionStatePayloadをバイト列にエンコードする
func (p *ReactionStatePayload) Encode() []byte {
	w := &payloadWriter{}
	w.id(p.Character)
	writeState(w, p.State)
	return w.bytes()
}

func writeHitSide(w *payloadWriter, s reaction.HitSide) {
	w.id(s.Actor)
	w.vec(s.Location)
	w.vec(s.ImpactPoint)
	w.vec(s.ImpactNormal)
	w.str(s.Bone)
	w.f32(s.Mass)
	w.vec(s.Velocity)
	w.vec(s.Impulse)
	w.quat(s.Rotation)
}

func readHitSide(r *payloadReader) reaction.HitSide {
	return reaction.HitSide{
		Actor:        reaction.ActorID(r.id()),
		Location:     r.vec(),
		ImpactPoint:  r.vec(),
		ImpactNormal: r.vec(),
		Bone:         r.str(),
		Mass:         r.f32(),
		Velocity:     r.vec(),
		Impulse:      r.vec(),
		Rotation:     r.quat(),
	}
}

func writeHitRecord(w *payloadWriter, h reaction.HitRecord) {
	writeHitSide(w, h.Impactor)
	writeHitSide(w, h.Origin)
	w.tag(h.ImpactType)
	w.tag(h.Velocity)
	w.tag(h.Side)
	w.tag(h.Form)
}

func readHitRecord(r *payloadReader) reaction.HitRecord {
	return reaction.HitRecord{
		Impactor:   readHitSide(r),
		Origin:     readHitSide(r),
		ImpactType: r.tag(),
		Velocity:   r.tag(),
		Side:       r.tag(),
		Form:       r.tag(),
	}
}

func writeClip(w *payloadWriter, c reaction.Clip) {
	w.str(c.Name)
	w.duration(c.Length)
}

func readClip(r *payloadReader) reaction.Clip {
	return reaction.Clip{Name: r.str(), Length: r.duration()}
}

func writeCandidate(w *payloadWriter, c reaction.Candidate) {
	w.u8(uint8(min(len(c.Tags), 255)))
	for _, t := range c.Tags[:min(len(c.Tags), 255)] {
		w.tag(t)
	}
	writeClip(w, c.Clip)
	w.f32(c.PlayRate)
	w.str(string(c.Audio))
	w.str(string(c.Particle))
}

func readCandidate(r *payloadReader) reaction.Candidate {
	n := int(r.u8())
	tags := make(reaction.TagSet, 0, n)
	for range n {
		tags = append(tags, r.tag())
	}
	return reaction.Candidate{
		Tags:     tags,
		Clip:     readClip(r),
		PlayRate: r.f32(),
		Audio:    reaction.AudioHandle(r.str()),
		Particle: reaction.ParticleHandle(r.str()),
	}
}

func writeState(w *payloadWriter, s reaction.State) {
	writeClip(w, s.Clip)
	w.f32(s.PlayRate)
	w.tag(s.ImpactType)
	w.f32(s.ImpactVelocity)
	w.f32(s.TargetYaw)
	w.f32(s.BaseDamage)
}

func readState(r *payloadReader) reaction.State {
	return reaction.State{
		Clip:           readClip(r),
		PlayRate:       r.f32(),
		ImpactType:     r.tag(),
		ImpactVelocity: r.f32(),
		TargetYaw:      r.f32(),
		BaseDamage:     r.f32(),
	}
}
