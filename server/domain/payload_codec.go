package domain

import (
	"errors"
	"math"
	"time"

	"flinch/server/reaction"
	"flinch/utils"
)

var (
	ErrInvalidPayloadEncoding = errors.New("invalid payload encoding")
	ErrNonFinitePayload       = errors.New("payload contains non-finite value")
)

// payloadWriter は可変長ペイロードを組み立てる
//
//	数値        リトルエンディアン、浮動小数はfloat32
//	文字列/タグ u8 長さ + バイト列 (255バイトまで)
type payloadWriter struct {
	buf []byte
}

func (w *payloadWriter) bytes() []byte { return w.buf }

func (w *payloadWriter) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *payloadWriter) u16(v uint16) {
	w.buf = byteOrder.AppendUint16(w.buf, v)
}

func (w *payloadWriter) u32(v uint32) {
	w.buf = byteOrder.AppendUint32(w.buf, v)
}

func (w *payloadWriter) f32(v float64) {
	w.u32(math.Float32bits(float32(v)))
}

func (w *payloadWriter) str(s string) {
	if len(s) > math.MaxUint8 {
		s = s[:math.MaxUint8]
	}
	w.u8(uint8(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *payloadWriter) tag(t reaction.Tag) { w.str(string(t)) }

func (w *payloadWriter) id(id [16]byte) {
	w.buf = append(w.buf, id[:]...)
}

func (w *payloadWriter) vec(v reaction.Vec3) {
	w.f32(v.X)
	w.f32(v.Y)
	w.f32(v.Z)
}

func (w *payloadWriter) quat(q reaction.Quat) {
	w.f32(q.X)
	w.f32(q.Y)
	w.f32(q.Z)
	w.f32(q.W)
}

func (w *payloadWriter) duration(d time.Duration) {
	w.u32(uint32(d.Milliseconds()))
}

// payloadReader は payloadWriter の逆。最初のエラーを保持し以降の読み取りはゼロ値を返す。
type payloadReader struct {
	data []byte
	off  int
	err  error
}

func newPayloadReader(data []byte) *payloadReader {
	return &payloadReader{data: data}
}

func (r *payloadReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = ErrInvalidPayloadEncoding
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *payloadReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *payloadReader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return byteOrder.Uint16(b)
}

func (r *payloadReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return byteOrder.Uint32(b)
}

func (r *payloadReader) f32() float64 {
	v := float64(math.Float32frombits(r.u32()))
	if r.err == nil && !utils.Finite(v) {
		r.err = ErrNonFinitePayload
	}
	return v
}

func (r *payloadReader) str() string {
	n := int(r.u8())
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *payloadReader) tag() reaction.Tag { return reaction.Tag(r.str()) }

func (r *payloadReader) id() [16]byte {
	var id [16]byte
	copy(id[:], r.take(16))
	return id
}

func (r *payloadReader) vec() reaction.Vec3 {
	return reaction.Vec3{X: r.f32(), Y: r.f32(), Z: r.f32()}
}

func (r *payloadReader) quat() reaction.Quat {
	return reaction.Quat{X: r.f32(), Y: r.f32(), Z: r.f32(), W: r.f32()}
}

func (r *payloadReader) duration() time.Duration {
	return time.Duration(r.u32()) * time.Millisecond
}
