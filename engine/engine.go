// Package engine keeps the pagination of a block sequence up to date.
//
// Every call to Paginate is a pass: validate, measure on an off-surface frame,
// pack and assemble. A pass is skipped when the sequence signature equals the
// committed one. When passes overlap, only the most recently started pass may
// commit; older passes return ErrSuperseded. A failed pass never replaces the
// last committed result.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/paginate"
)

// ErrSuperseded 表示该次计算完成前已有更新的计算开始，其结果被丢弃。
var ErrSuperseded = errors.New("engine: pass superseded by a newer one")

// SignatureFunc 计算序列指纹，指纹不变时复用已提交的结果。
type SignatureFunc func(content.Sequence) string

// Option 配置 Engine。
type Option func(*Engine)

// WithSignature 替换默认的完整内容指纹，例如 content.Sequence.TitleSignature。
func WithSignature(fn SignatureFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.signature = fn
		}
	}
}

// WithMeta 设置写入每个结果的文档元信息。
func WithMeta(meta layout.DocumentMeta) Option {
	return func(e *Engine) { e.meta = meta }
}

// Engine 串行执行分页计算并保存最后一次成功提交的结果。
type Engine struct {
	ts        layout.Typesetter
	geom      layout.Geometry
	signature SignatureFunc
	meta      layout.DocumentMeta

	// pass 保证同一时刻只有一次测量在使用 Typesetter。
	pass sync.Mutex

	mu         sync.Mutex
	generation uint64
	committed  string
	current    *layout.Result
}

// New 创建 Engine。ts 必须是最终渲染所用的同一个后端。
func New(ts layout.Typesetter, geom layout.Geometry, opts ...Option) (*Engine, error) {
	if ts == nil {
		return nil, fmt.Errorf("engine: typesetter is nil")
	}
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{ts: ts, geom: geom, signature: content.Sequence.Signature}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Geometry 返回引擎使用的页面几何。
func (e *Engine) Geometry() layout.Geometry { return e.geom }

// Generation 返回已开始的计算次数。
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Current 返回最后一次提交的结果，没有时为 nil。
func (e *Engine) Current() *layout.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Invalidate 清除已提交的指纹，下一次 Paginate 必定重新计算；当前结果仍然保留。
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.committed = ""
	e.mu.Unlock()
}

// Paginate 在指纹变化时重新测量、分页与组合，并返回最新结果。
func (e *Engine) Paginate(seq content.Sequence) (*layout.Result, error) {
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	sig := e.signature(seq)

	e.mu.Lock()
	if e.current != nil && e.committed != "" && sig == e.committed {
		cur := e.current
		e.mu.Unlock()
		return cur, nil
	}
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	e.pass.Lock()
	res, err := e.run(seq)
	e.pass.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return nil, fmt.Errorf("%w (pass %d, latest %d)", ErrSuperseded, gen, e.generation)
	}
	if err != nil {
		return nil, err
	}
	res.Signature = sig
	e.current, e.committed = res, sig
	return res, nil
}

func (e *Engine) run(seq content.Sequence) (*layout.Result, error) {
	m, err := layout.Measure(seq, e.geom, e.ts)
	if err != nil {
		return nil, err
	}
	part, err := paginate.Pack(m.Heights, m.Capacities(e.geom), e.geom.Spacing)
	if err != nil {
		return nil, err
	}
	res, err := layout.Assemble(seq, m, part, e.geom, e.ts)
	if err != nil {
		return nil, err
	}
	res.Meta = e.meta
	return res, nil
}
