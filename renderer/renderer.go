// Package renderer defines the output backends of the pagination engine.
package renderer

import "github.com/ByLCY/folio/layout"

// Renderer 将分页结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 同时负责测量与渲染：测量必须使用与输出相同的字体度量。
type Backend interface {
	Renderer
	layout.Typesetter
}
