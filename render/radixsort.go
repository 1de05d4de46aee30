package render

import (
	"runtime"
	"sync"
)

const (
	radixBits    = 8
	radixBuckets = 1 << radixBits
	radixPasses  = 64 / radixBits
	radixMask    = radixBuckets - 1
)

// sortDrawCommands orders cmds by SortKey ascending, ties broken by
// insertion order (stable), choosing an algorithm by size: a stable
// comparison sort below 4096 elements, a single-threaded 8-bit LSD radix
// sort up to 20000, and a multi-threaded LSD radix sort beyond that. All
// three paths are stable, so they produce identical orderings for the
// same input.
func sortDrawCommands(cmds []DrawCommand) {
	n := len(cmds)
	switch {
	case n < 4096:
		comparisonSort(cmds)
	case n < 20000:
		radixSortSingle(cmds)
	default:
		radixSortMulti(cmds, runtime.GOMAXPROCS(0))
	}
}

func comparisonSort(cmds []DrawCommand) {
	stableSort(cmds)
}

// radixSortSingle runs radixPasses rounds of 8-bit stable counting sort
// over the 64-bit sort key, low byte first, swapping between cmds and a
// scratch buffer each pass.
func radixSortSingle(cmds []DrawCommand) {
	n := len(cmds)
	temp := make([]DrawCommand, n)
	in, out := cmds, temp

	for pass := 0; pass < radixPasses; pass++ {
		shift := uint(pass * radixBits)

		var count [radixBuckets]int
		for _, cmd := range in {
			count[(cmd.SortKey>>shift)&radixMask]++
		}

		var offset [radixBuckets]int
		sum := 0
		for i := 0; i < radixBuckets; i++ {
			offset[i] = sum
			sum += count[i]
		}

		for _, cmd := range in {
			b := (cmd.SortKey >> shift) & radixMask
			out[offset[b]] = cmd
			offset[b]++
		}

		in, out = out, in
	}

	// radixPasses is even, so `in` already aliases the original cmds
	// slice's backing array after an even number of swaps; copy defensively
	// in case that assumption ever changes.
	if &in[0] != &cmds[0] {
		copy(cmds, in)
	}
}

// radixSortMulti is radixSortSingle's histogram and scatter phases spread
// across threadCount goroutines per pass: each worker computes a local
// histogram over its slice of the input, a global prefix sum turns the
// per-worker local histograms into per-worker-per-bucket scatter offsets,
// and every worker then writes its slice of the input into the shared
// output at those offsets. Workers are joined (via sync.WaitGroup) between
// the histogram and scatter phases, and again before the next pass reads
// the buffer the previous pass's scatter phase wrote.
func radixSortMulti(cmds []DrawCommand, threadCount int) {
	n := len(cmds)
	if threadCount < 1 {
		threadCount = 1
	}
	if threadCount > n {
		threadCount = n
	}

	temp := make([]DrawCommand, n)
	in, out := cmds, temp
	chunkSize := (n + threadCount - 1) / threadCount

	localHist := make([][radixBuckets]int, threadCount)
	localOffset := make([][radixBuckets]int, threadCount)

	for pass := 0; pass < radixPasses; pass++ {
		shift := uint(pass * radixBits)

		for t := range localHist {
			localHist[t] = [radixBuckets]int{}
		}

		var wg sync.WaitGroup
		for t := 0; t < threadCount; t++ {
			start, end := chunkBounds(t, chunkSize, n)
			if start >= end {
				continue
			}
			wg.Add(1)
			go func(t, start, end int) {
				defer wg.Done()
				hist := &localHist[t]
				for i := start; i < end; i++ {
					hist[(in[i].SortKey>>shift)&radixMask]++
				}
			}(t, start, end)
		}
		wg.Wait()

		var globalOffset [radixBuckets]int
		for b := 1; b < radixBuckets; b++ {
			sum := globalOffset[b-1]
			for t := 0; t < threadCount; t++ {
				sum += localHist[t][b-1]
			}
			globalOffset[b] = sum
		}
		for b := 0; b < radixBuckets; b++ {
			offset := globalOffset[b]
			for t := 0; t < threadCount; t++ {
				localOffset[t][b] = offset
				offset += localHist[t][b]
			}
		}

		for t := 0; t < threadCount; t++ {
			start, end := chunkBounds(t, chunkSize, n)
			if start >= end {
				continue
			}
			wg.Add(1)
			go func(t, start, end int) {
				defer wg.Done()
				off := localOffset[t]
				for i := start; i < end; i++ {
					b := (in[i].SortKey >> shift) & radixMask
					out[off[b]] = in[i]
					off[b]++
				}
			}(t, start, end)
		}
		wg.Wait()

		in, out = out, in
	}

	if &in[0] != &cmds[0] {
		copy(cmds, in)
	}
}

func chunkBounds(t, chunkSize, n int) (int, int) {
	start := t * chunkSize
	end := start + chunkSize
	if end > n {
		end = n
	}
	if start > n {
		start = n
	}
	return start, end
}

// stableSort is a merge sort over SortKey: stable because the merge step
// prefers the left run whenever keys tie.
func stableSort(cmds []DrawCommand) {
	n := len(cmds)
	if n < 2 {
		return
	}
	buf := make([]DrawCommand, n)
	mergeSortCommands(cmds, buf)
}

func mergeSortCommands(cmds, buf []DrawCommand) {
	n := len(cmds)
	if n < 2 {
		return
	}
	mid := n / 2
	mergeSortCommands(cmds[:mid], buf[:mid])
	mergeSortCommands(cmds[mid:], buf[mid:])

	copy(buf[:mid], cmds[:mid])
	copy(buf[mid:], cmds[mid:])

	i, j, k := 0, mid, 0
	for i < mid && j < n {
		if buf[j].SortKey < buf[i].SortKey {
			cmds[k] = buf[j]
			j++
		} else {
			cmds[k] = buf[i]
			i++
		}
		k++
	}
	for i < mid {
		cmds[k] = buf[i]
		i++
		k++
	}
	for j < n {
		cmds[k] = buf[j]
		j++
		k++
	}
}
