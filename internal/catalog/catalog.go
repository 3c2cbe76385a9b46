package catalog

// MenuItem is a single orderable item with its price in whole JPY.
type MenuItem struct {
	Name  string
	Price int
}

// MenuCategory groups items the way the shop's menu board does.
type MenuCategory struct {
	Category string
	Items    []MenuItem
}

// menuData is the authoritative shop menu. Prices here are the only prices
// the gateway will ever charge; client-supplied prices are never consulted.
var menuData = []MenuCategory{
	{
		Category: "こってり",
		Items: []MenuItem{
			{Name: "こってり", Price: 950},
			{Name: "味玉こってり", Price: 1050},
			{Name: "野菜こってり", Price: 1150},
			{Name: "豚増こってり", Price: 1330},
		},
	},
	{
		Category: "あっさり",
		Items: []MenuItem{
			{Name: "あっさり", Price: 900},
			{Name: "味玉あっさり", Price: 1000},
			{Name: "野菜あっさり", Price: 1050},
			{Name: "豚増あっさり", Price: 1250},
		},
	},
	{
		Category: "汁無し",
		Items: []MenuItem{
			{Name: "汁無し", Price: 1000},
			{Name: "チーズ汁無し", Price: 1150},
			{Name: "野菜汁無し", Price: 1150},
			{Name: "豚マシ汁無し", Price: 1350},
		},
	},
	{
		Category: "油そば・飲み物",
		Items: []MenuItem{
			{Name: "【冷】油そば", Price: 800},
			{Name: "【温】油そば", Price: 800},
			{Name: "コーラ", Price: 250},
			{Name: "ビール", Price: 600},
		},
	},
	{
		Category: "トッピング・サイド",
		Items: []MenuItem{
			{Name: "生卵", Price: 100},
			{Name: "全部", Price: 450},
			{Name: "味玉", Price: 150},
			{Name: "やさい", Price: 250},
			{Name: "チーズ", Price: 300},
			{Name: "のり", Price: 300},
			{Name: "ライス", Price: 250},
			{Name: "豚増", Price: 400},
			{Name: "かす増", Price: 400},
			{Name: "テイクアウトあぶらかす", Price: 600},
			{Name: "粒ニンニク", Price: 400},
			{Name: "麺特盛", Price: 350},
			{Name: "かす飯", Price: 400},
		},
	},
}

// Entry is the flattened per-item record.
type Entry struct {
	Price    int
	Category string
}

// Catalog is an immutable item-name -> entry lookup table. It is built once
// at startup and never written afterwards, so it is safe for concurrent reads
// without synchronization.
type Catalog struct {
	entries map[string]Entry
}

// New flattens the static menu into a Catalog. Duplicate names are
// last-write-wins; the menu data has none, and the tests pin the entry count
// so an accidental duplicate is caught.
func New() *Catalog {
	entries := make(map[string]Entry)
	for _, cat := range menuData {
		for _, item := range cat.Items {
			entries[item.Name] = Entry{Price: item.Price, Category: cat.Category}
		}
	}
	return &Catalog{entries: entries}
}

// PriceOf returns the unit price for an item, or false if the item is not on
// the menu.
func (c *Catalog) PriceOf(name string) (int, bool) {
	e, ok := c.entries[name]
	return e.Price, ok
}

// CategoryOf returns the menu category an item belongs to.
func (c *Catalog) CategoryOf(name string) (string, bool) {
	e, ok := c.entries[name]
	return e.Category, ok
}

// Size returns the number of distinct items.
func (c *Catalog) Size() int {
	return len(c.entries)
}
