package codec

import "sync"

// parallel calls fn for every index in [0, n) using at most workers
// goroutines. fn must only write to state owned by its index.
func parallel(n, workers int, fn func(int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	in := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range in {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		in <- i
	}
	close(in)
	wg.Wait()
}
