package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/poiesic/shopsearch/search"
	"github.com/poiesic/shopsearch/session"
	"github.com/urfave/cli/v2"
)

// resultWait bounds how long the shell waits for a debounced search pass.
const resultWait = 5 * time.Second

const shellHelp = `Type a query to search. Commands:
  :down :up :home :end   move the selection
  :enter                 open the selected result
  :esc                   close the dialog
  :more                  show more results
  :category <value>      filter by result type
  :quit                  leave the shell`

func shellCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	sources, err := db.Sources()
	if err != nil {
		return err
	}
	searcher, err := db.NewSearcher(sources)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	out := c.App.Writer
	responses := make(chan *search.Response, 1)
	sess, err := db.NewSession(ctx, searcher,
		session.OnResults(func(resp *search.Response) {
			select {
			case responses <- resp:
			default:
			}
		}),
		session.OnNavigate(func(route string) {
			fmt.Fprintf(out, "-> %s\n", route)
		}),
		session.OnClose(func() {
			fmt.Fprintln(out, "(closed)")
		}),
	)
	if err != nil {
		return err
	}

	sh := &shell{sess: sess, out: out, responses: responses, wait: db.Config().DebounceDelay + resultWait}
	fmt.Fprintln(out, shellHelp)
	sess.Open()
	return sh.run(c.App.Reader)
}

type shell struct {
	sess      *session.Session
	out       io.Writer
	responses chan *search.Response
	wait      time.Duration
}

func (sh *shell) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == ":quit" || line == ":q" {
			return nil
		}
		sh.handle(line)
	}
	return scanner.Err()
}

func (sh *shell) handle(line string) {
	sh.drain()

	if !strings.HasPrefix(line, ":") {
		if line == sh.sess.Query() {
			sh.print()
			return
		}
		sh.sess.SetQuery(line)
		sh.await()
		return
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	switch name {
	case "more":
		sh.sess.Expand()
		sh.print()
	case "category":
		sh.sess.SetCategory(arg)
		sh.print()
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
	default:
		key := session.ParseKey(name)
		if key == session.KeyUnknown {
			fmt.Fprintf(sh.out, "unknown command %q\n", name)
			return
		}
		if !sh.sess.HandleKey(key) {
			return
		}
		switch key {
		case session.KeyEnter, session.KeyEscape:
			sh.sess.Open()
		default:
			sh.print()
		}
	}
}

func (sh *shell) await() {
	select {
	case <-sh.responses:
		sh.print()
	case <-time.After(sh.wait):
		fmt.Fprintln(sh.out, "(no response)")
	}
}

func (sh *shell) drain() {
	for {
		select {
		case <-sh.responses:
		default:
			return
		}
	}
}

func (sh *shell) print() {
	resp := sh.sess.Response()
	if resp == nil || resp.Query == "" {
		return
	}
	printResponse(sh.out, resp, sh.sess.Selected())
}
