package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/paginate"
)

// ErrMeasurementIncomplete 与 paginate.ErrMeasurementIncomplete 是同一个值，
// 测量失败与分页拒绝可以用同一个 errors.Is 判断。
var ErrMeasurementIncomplete = paginate.ErrMeasurementIncomplete

// Measurement 是一次测量的快照。每次 Measure 都重新分配，Heights 与 Placeable 的位置一一对应，
// 未能测量的位置为 NaN。
type Measurement struct {
	Keys        []string  `json:"keys"`
	Heights     []float64 `json:"heights"`
	FirstHeader float64   `json:"firstHeader"`
	RestHeader  float64   `json:"restHeader"`
}

// Header 返回首页或后续页页眉的测量高度（已含页眉下方的间距）。
func (m *Measurement) Header(first bool) float64 {
	if first {
		return m.FirstHeader
	}
	return m.RestHeader
}

// Capacities 计算首页与后续页的可用高度 H − 2P − 页眉。
func (m *Measurement) Capacities(geom Geometry) paginate.Capacities {
	return paginate.Capacities{
		First: geom.UsableHeight() - m.FirstHeader,
		Rest:  geom.UsableHeight() - m.RestHeader,
	}
}

// MeasureError 记录单个块（或页眉，Position 为 -1）的测量失败。
type MeasureError struct {
	Position int
	Key      string
	Err      error
}

func (e *MeasureError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("measure header %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("measure block %d (%s): %v", e.Position, e.Key, e.Err)
}

func (e *MeasureError) Unwrap() error { return e.Err }

// Measure 在远离页面的不可见绘制面上组合每个可放置块与两个页眉，并读回高度。
// 所有块都组合完毕后才返回快照。有块失败时仍返回带 NaN 的 Measurement，
// 同时返回包装了 ErrMeasurementIncomplete 的错误；调用方不得用它分页。
func Measure(seq content.Sequence, geom Geometry, ts Typesetter) (*Measurement, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	first, ok := seq.Header(true)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", content.ErrInvalidSequence, content.HeaderFirstKey)
	}
	rest, ok := seq.Header(false)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", content.ErrInvalidSequence, content.HeaderRestKey)
	}

	placeable := seq.Placeable()
	m := &Measurement{
		Keys:    make([]string, len(placeable)),
		Heights: make([]float64, len(placeable)),
	}
	surface := OffSurface(geom)
	var errs []error

	var err error
	if m.FirstHeader, err = measureOne(first, surface, ts, geom, ComposeHeader); err != nil {
		errs = append(errs, &MeasureError{Position: -1, Key: first.Key, Err: err})
	}
	if m.RestHeader, err = measureOne(rest, surface, ts, geom, ComposeHeader); err != nil {
		errs = append(errs, &MeasureError{Position: -1, Key: rest.Key, Err: err})
	}
	for i, b := range placeable {
		m.Keys[i] = b.Key
		if m.Heights[i], err = measureOne(b, surface, ts, geom, ComposeBlock); err != nil {
			errs = append(errs, &MeasureError{Position: i, Key: b.Key, Err: err})
		}
	}
	if len(errs) > 0 {
		return m, fmt.Errorf("layout: %w: %w", ErrMeasurementIncomplete, errors.Join(errs...))
	}
	return m, nil
}

type composeFunc func(content.Block, Surface, Typesetter, Geometry) (BlockBox, error)

// measureOne 失败时返回 NaN，从不以 0 代替。
func measureOne(b content.Block, s Surface, ts Typesetter, geom Geometry, fn composeFunc) (h float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = math.NaN(), fmt.Errorf("panic: %v", r)
		}
	}()
	box, err := fn(b, s, ts, geom)
	if err != nil {
		return math.NaN(), err
	}
	return box.Height, nil
}
