// Package streak 计算习惯的连续完成天数。
//
// 所有函数都是纯函数：不读取系统时钟，"今天"由调用方显式传入。
package streak

import "habit-tracker/date"

// Current 返回以 today 为终点(含)向前连续完成的天数。
// today 未完成时返回 0，不论之前是否有连续记录；晚于 today 的完成记录不会被访问。
func Current(completions date.Set, today date.Key) int {
	if len(completions) == 0 {
		return 0
	}

	offset := 0
	for completions.Has(today.AddDays(-offset)) {
		offset++
	}
	return offset
}

// Longest 返回完成记录中任意位置最长的连续天数
func Longest(completions date.Set) int {
	longest := 0
	for k := range completions {
		// 只从一段连续记录的起点开始数
		if completions.Has(k.AddDays(-1)) {
			continue
		}
		run := 1
		for completions.Has(k.AddDays(run)) {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
