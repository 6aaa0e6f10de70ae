package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inklet/inklet/core/authz"
	"github.com/inklet/inklet/core/blog"
	"github.com/inklet/inklet/core/guard"
)

var (
	createTitle string
	createBody  string
	createImage string

	editTitle string
	editBody  string
	editImage string

	deleteYes bool
)

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "post title")
	createCmd.Flags().StringVar(&createBody, "body", "", "post body text")
	createCmd.Flags().StringVar(&createImage, "image", "", "path of an image to upload with the post")

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title (unchanged when omitted)")
	editCmd.Flags().StringVar(&editBody, "body", "", "new body text (unchanged when omitted)")
	editCmd.Flags().StringVar(&editImage, "image", "", "path of a replacement image")

	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "skip the confirmation prompt")

	rootCmd.AddCommand(listCmd, showCmd, createCmd, editCmd, deleteCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all posts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		posts, err := client.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			cmd.Println("no posts yet")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPUBLISHED\tAUTHOR\tTITLE")
		for _, p := range posts {
			published := ""
			if !p.CreatedAt.IsZero() {
				published = p.CreatedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, published, p.Author, p.Title)
		}
		return tw.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := client.Get(cmd.Context(), blog.ID(args[0]))
		if err != nil {
			return err
		}

		cmd.Println(post.Title)
		if !post.CreatedAt.IsZero() {
			cmd.Printf("published %s", post.CreatedAt.Format("January 2, 2006 15:04"))
			if post.Author != "" {
				cmd.Printf(" by %s", post.Author)
			}
			cmd.Println()
		}
		if post.ImageFilename != "" {
			cmd.Printf("image: %s\n", post.ImageFilename)
		}
		cmd.Println()
		cmd.Println(post.Body)

		// Mutation hints are an affordance only; the client re-checks the
		// policy before any edit or delete goes out.
		if authz.CanMutate(store.Current(), post) {
			cmd.Printf("\nedit with \"inklet edit %s\", delete with \"inklet delete %s\"\n", post.ID, post.ID)
		}
		return nil
	},
}

var createRoute = guard.Route{Name: "create", Guarded: true, RequireAuth: true}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new post",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if handled, err := checkRoute(cmd, createRoute); handled {
			return err
		}

		att, cleanup, err := openAttachment(createImage)
		if err != nil {
			return err
		}
		defer cleanup()

		post, err := client.Create(cmd.Context(), blog.Draft{Title: createTitle, Body: createBody}, att)
		if err != nil {
			return err
		}

		cmd.Printf("published post %s: %s\n", post.ID, post.Title)
		return nil
	},
}

var editRoute = guard.Route{Name: "edit", Guarded: true, RequireAuth: true}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if handled, err := checkRoute(cmd, editRoute); handled {
			return err
		}

		id := blog.ID(args[0])

		// Pre-fill omitted fields from the current post, like the edit form
		// the web client shows.
		current, err := client.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		draft := blog.Draft{Title: editTitle, Body: editBody}
		if draft.Title == "" {
			draft.Title = current.Title
		}
		if draft.Body == "" {
			draft.Body = current.Body
		}

		att, cleanup, err := openAttachment(editImage)
		if err != nil {
			return err
		}
		defer cleanup()

		// Adopt the server's copy, not the local draft: fields may be
		// normalized on the way through.
		post, err := client.Edit(cmd.Context(), id, draft, att)
		if err != nil {
			return err
		}

		cmd.Printf("updated post %s: %s\n", post.ID, post.Title)
		return nil
	},
}

var deleteRoute = guard.Route{Name: "delete", Guarded: true, RequireAuth: true}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if handled, err := checkRoute(cmd, deleteRoute); handled {
			return err
		}

		id := blog.ID(args[0])
		if !deleteYes && !confirm(cmd, fmt.Sprintf("delete post %s?", id)) {
			cmd.Println("aborted")
			return nil
		}

		if err := client.Delete(cmd.Context(), id); err != nil {
			return err
		}

		cmd.Printf("deleted post %s\n", id)
		return nil
	},
}

func openAttachment(path string) (*blog.Attachment, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	return &blog.Attachment{Name: filepath.Base(path), Reader: f},
		func() { _ = f.Close() }, nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
