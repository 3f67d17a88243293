package domain

// WorkItem 是从分发器流向某个 lane 的工作单元。
// Entry 是克隆后的值，lane 的生命周期不依赖 manifest。
type WorkItem struct {
	Lane  int
	ID    string
	Entry Entry
}
