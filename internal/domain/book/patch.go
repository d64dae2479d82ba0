package book

// 补丁字段名,同时也是存储中的字段名
const (
	FieldTitle     = "title"
	FieldISBN      = "isbn"
	FieldAuthor    = "author"
	FieldPages     = "pages"
	FieldEditorial = "editorial"
)

// Patch 部分更新
// 每个字段都是可选的,nil表示"保持不变"(请求中缺省或显式传null都是nil)
type Patch struct {
	Title     *string
	ISBN      *string
	Author    *string
	Pages     *int
	Editorial *string
}

// IsEmpty 没有任何需要修改的字段
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.ISBN == nil && p.Author == nil && p.Pages == nil && p.Editorial == nil
}

// Validate 校验补丁
// 业务规则:如果要修改书名,新书名不能为空
func (p Patch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Fields 补丁中出现的字段 → 新值
func (p Patch) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, 5)
	if p.Title != nil {
		fields[FieldTitle] = *p.Title
	}
	if p.ISBN != nil {
		fields[FieldISBN] = *p.ISBN
	}
	if p.Author != nil {
		fields[FieldAuthor] = *p.Author
	}
	if p.Pages != nil {
		fields[FieldPages] = *p.Pages
	}
	if p.Editorial != nil {
		fields[FieldEditorial] = *p.Editorial
	}
	return fields
}

// ApplyTo 把补丁应用到实体上(内存实现和测试使用)
func (p Patch) ApplyTo(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Pages != nil {
		b.Pages = *p.Pages
	}
	if p.Editorial != nil {
		editorial := *p.Editorial
		b.Editorial = &editorial
	}
}
