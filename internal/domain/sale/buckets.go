package sale

// PriceBucket 价格区间，上界包含；最后一个区间没有上界
type PriceBucket struct {
	Label string
	Upper float64 // 包含，Open时无意义
	Open  bool
}

// PriceBuckets 固定的10个价格区间，顺序即输出顺序
var PriceBuckets = []PriceBucket{
	{Label: "0-100", Upper: 100},
	{Label: "101-200", Upper: 200},
	{Label: "201-300", Upper: 300},
	{Label: "301-400", Upper: 400},
	{Label: "401-500", Upper: 500},
	{Label: "501-600", Upper: 600},
	{Label: "601-700", Upper: 700},
	{Label: "701-800", Upper: 800},
	{Label: "801-900", Upper: 900},
	{Label: "901-above", Open: true},
}

// bucketLabel 返回价格所属区间，是存储层区间表达式的对照
// 100.5落在101-200，与存储层 price>100 AND price<=200 的判断一致；负数归入0-100
func bucketLabel(price float64) string {
	for _, b := range PriceBuckets {
		if b.Open || price <= b.Upper {
			return b.Label
		}
	}
	return PriceBuckets[len(PriceBuckets)-1].Label
}

// BucketCount 区间计数
type BucketCount struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

// FillBuckets 按固定顺序输出全部10个区间，缺失的补0
// 未知标签会被忽略
func FillBuckets(rows []KeyCount) []BucketCount {
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] += r.Count
	}

	out := make([]BucketCount, 0, len(PriceBuckets))
	for _, b := range PriceBuckets {
		out = append(out, BucketCount{Range: b.Label, Count: counts[b.Label]})
	}
	return out
}
