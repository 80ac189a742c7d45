// Command bookdemo wires one runner.BookRunner, submits a short sequence of
// events, and prints the resulting BBO. It is a small demonstration, not a
// benchmark harness or an events-file driver — those stay out of scope per
// spec.md §1.
package main

import (
	"fmt"
	"time"

	"limitbook/config"
	"limitbook/events"
	"limitbook/runner"
	"limitbook/vocab"
)

func main() {
	r, err := runner.New(config.DefaultRunnerConfig())
	if err != nil {
		fmt.Println("runner.New:", err)
		return
	}
	r.Start()
	defer r.Stop()

	r.Submit(events.Record{Op: events.OpAdd, Side: vocab.Buy, Id: 1, Qty: 10, Price: 100})
	r.Submit(events.Record{Op: events.OpAdd, Side: vocab.Sell, Id: 2, Qty: 5, Price: 101})
	r.Submit(events.Record{Op: events.OpExecute, Id: 1, Qty: 4})

	for {
		bbo := r.Book().BBO()
		if bbo.Bid != nil && bbo.Offer != nil && r.Book().Bsn() == 3 {
			fmt.Println("bbo:", bbo)
			break
		}
		time.Sleep(time.Millisecond)
	}

	fmt.Println("bsn:", r.Book().Bsn())
}
