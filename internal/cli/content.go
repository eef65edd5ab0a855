package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/bioscizone-api/internal/dashboard"
	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/views"
)

var buddyHeader = []string{"ID", "NAME", "COURSE", "TOPIC", "STATUS", "CREATED"}

func buddyRows(items []dto.BuddyResponse) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{itoa(item.ID), item.FullName, item.Course, truncate(item.ResearchTopic, 40), item.Status, stamp(item.CreatedAt)})
	}
	return rows
}

var articleHeader = []string{"ID", "CATEGORY", "TITLE", "AUTHOR", "CREATED"}

func articleRows(items []dto.ArticleResponse) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{itoa(item.ID), item.Category, truncate(item.Title, 50), deref(item.Author), stamp(item.CreatedAt)})
	}
	return rows
}

func (a *app) buddiesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "buddies", Short: "Browse and moderate Bio-Buddy profiles"}

	var course, query string
	var pending bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List approved profiles, or the moderation queue with --pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			var items []dto.BuddyResponse
			if pending {
				d, err := a.dashboard(ctx, dashboard.TabBuddies)
				if err != nil {
					return err
				}
				items = views.FilterBuddies(d.Snapshot().Pending, query)
			} else {
				directory := views.NewBuddyDirectory(a.public, course)
				if err := directory.Mount(ctx); err != nil {
					return err
				}
				items = directory.Filter(query)
			}
			return a.render(items, buddyHeader, buddyRows(items))
		},
	}
	list.Flags().BoolVar(&pending, "pending", false, "show profiles awaiting approval (requires login)")
	list.Flags().StringVar(&course, "course", "", "course filter, e.g. K20")
	list.Flags().StringVarP(&query, "search", "s", "", "filter by name, topic, field or course")

	approve := &cobra.Command{
		Use:   "approve <id>",
		Short: "Publish a pending profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabBuddies)
			if err != nil {
				return err
			}
			if err := d.ApproveBuddy(ctx, id); err != nil {
				return err
			}
			a.say("Buddy %d approved. %d pending.", id, len(d.Snapshot().Pending))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabBuddies)
			if err != nil {
				return err
			}
			if err := d.DeleteBuddy(ctx, id); err != nil {
				return err
			}
			a.say("Buddy %d deleted.", id)
			return nil
		},
	}

	var req dto.BuddySubmitRequest
	var studentID, phone, field, subject string
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit a profile for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.StudentID = optional(cmd, "student-id", studentID)
			req.Phone = optional(cmd, "phone", phone)
			req.ResearchField = optional(cmd, "field", field)
			req.ResearchSubject = optional(cmd, "subject", subject)
			ctx, cancel := a.context(cmd)
			defer cancel()
			message, err := a.public.SubmitBuddy(ctx, req)
			if err != nil {
				return err
			}
			a.say("%s", message)
			return nil
		},
	}
	flags := submit.Flags()
	flags.StringVar(&req.FullName, "name", "", "full name")
	flags.StringVar(&req.Course, "course", "", "course, e.g. K20")
	flags.StringVar(&req.Email, "email", "", "contact e-mail")
	flags.StringVar(&req.ResearchTopic, "topic", "", "research topic")
	flags.StringVar(&req.Description, "description", "", "what kind of partner you are looking for")
	flags.StringVar(&studentID, "student-id", "", "student ID")
	flags.StringVar(&phone, "phone", "", "phone number")
	flags.StringVar(&field, "field", "", "research field")
	flags.StringVar(&subject, "subject", "", "research subject")
	for _, name := range []string{"name", "course", "email", "topic", "description"} {
		_ = submit.MarkFlagRequired(name)
	}

	cmd.AddCommand(list, approve, remove, submit)
	return cmd
}

func (a *app) articlesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "articles", Short: "Browse and manage articles"}

	var category, query string
	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List articles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			var items []dto.ArticleResponse
			if all {
				d, err := a.dashboard(ctx, dashboard.TabArticles)
				if err != nil {
					return err
				}
				items = views.FilterArticles(d.Snapshot().Articles, query)
			} else {
				feed := views.NewArticleFeed(a.public, category)
				if err := feed.Mount(ctx); err != nil {
					return err
				}
				items = feed.Filter(query)
			}
			return a.render(items, articleHeader, articleRows(items))
		},
	}
	list.Flags().StringVarP(&category, "category", "c", "", "category filter")
	list.Flags().StringVarP(&query, "search", "s", "", "filter by title, author or text")
	list.Flags().BoolVar(&all, "all", false, "list every category through the admin API (requires login)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			article, err := a.public.Article(ctx, id)
			if err != nil {
				return err
			}
			return a.render(article, []string{"ID", "CATEGORY", "TITLE", "AUTHOR", "LINK", "FILE"},
				[][]string{{itoa(article.ID), article.Category, article.Title, deref(article.Author), deref(article.ExternalLink), deref(article.FileURL)}})
		},
	}

	var fields articleFields
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish an article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := fields.createRequest(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabArticles)
			if err != nil {
				return err
			}
			article, err := d.CreateArticle(ctx, req)
			if err != nil {
				return err
			}
			a.say("Article %d created.", article.ID)
			return nil
		},
	}
	fields.bind(create)

	var updates articleFields
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req, err := updates.updateRequest(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabArticles)
			if err != nil {
				return err
			}
			if _, err := d.UpdateArticle(ctx, id, req); err != nil {
				return err
			}
			a.say("Article %d updated.", id)
			return nil
		},
	}
	updates.bind(update)

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabArticles)
			if err != nil {
				return err
			}
			if err := d.DeleteArticle(ctx, id); err != nil {
				return err
			}
			a.say("Article %d deleted.", id)
			return nil
		},
	}

	cmd.AddCommand(list, show, create, update, remove)
	return cmd
}

// articleFields binds the article flags shared by create and update.
type articleFields struct {
	category, title, content, contentFile string
	author, link, fileURL, date          string
}

func (f *articleFields) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.category, "category", "c", "", "news, achievement, magazine, science_corner, resource or bio_info")
	flags.StringVarP(&f.title, "title", "t", "", "title")
	flags.StringVar(&f.content, "content", "", "body HTML")
	flags.StringVar(&f.contentFile, "content-file", "", "read the body from a file")
	flags.StringVar(&f.author, "author", "", "author")
	flags.StringVar(&f.link, "link", "", "external link")
	flags.StringVar(&f.fileURL, "file-url", "", "attached file URL")
	flags.StringVar(&f.date, "date", "", "publication date")
}

func (f *articleFields) body(cmd *cobra.Command) (*string, error) {
	if f.contentFile != "" {
		raw, err := os.ReadFile(f.contentFile)
		if err != nil {
			return nil, err
		}
		content := string(raw)
		return &content, nil
	}
	return optional(cmd, "content", f.content), nil
}

func (f *articleFields) createRequest(cmd *cobra.Command) (dto.ArticleCreateRequest, error) {
	if f.category == "" || f.title == "" {
		return dto.ArticleCreateRequest{}, errors.New("--category and --title are required")
	}
	content, err := f.body(cmd)
	if err != nil {
		return dto.ArticleCreateRequest{}, err
	}
	return dto.ArticleCreateRequest{
		Category:        f.category,
		Title:           f.title,
		Content:         content,
		Author:          optional(cmd, "author", f.author),
		ExternalLink:    optional(cmd, "link", f.link),
		FileURL:         optional(cmd, "file-url", f.fileURL),
		PublicationDate: optional(cmd, "date", f.date),
	}, nil
}

func (f *articleFields) updateRequest(cmd *cobra.Command) (dto.ArticleUpdateRequest, error) {
	content, err := f.body(cmd)
	if err != nil {
		return dto.ArticleUpdateRequest{}, err
	}
	req := dto.ArticleUpdateRequest{
		Category:        optional(cmd, "category", f.category),
		Title:           optional(cmd, "title", f.title),
		Content:         content,
		Author:          optional(cmd, "author", f.author),
		ExternalLink:    optional(cmd, "link", f.link),
		FileURL:         optional(cmd, "file-url", f.fileURL),
		PublicationDate: optional(cmd, "date", f.date),
	}
	if req.IsEmpty() {
		return req, errors.New("nothing to update")
	}
	return req, nil
}

// optional returns a pointer to value only when the flag was given.
func optional(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func (a *app) feedbacksCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "feedbacks", Aliases: []string{"feedback"}, Short: "Read and send feedback"}

	var unread bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List received feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabFeedbacks)
			if err != nil {
				return err
			}
			snap := d.Snapshot()
			items := snap.Feedbacks
			if unread {
				items = items[:0:0]
				for _, item := range snap.Feedbacks {
					if !item.Read() {
						items = append(items, item)
					}
				}
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				state := "read"
				if !item.Read() {
					state = "new"
				}
				rows = append(rows, []string{itoa(item.ID), state, item.SenderName, item.Email, truncate(item.Subject, 40), stamp(item.CreatedAt)})
			}
			if err := a.render(items, []string{"ID", "STATE", "FROM", "EMAIL", "SUBJECT", "RECEIVED"}, rows); err != nil {
				return err
			}
			a.logger.Debug().Int("unread", snap.UnreadFeedbacks()).Msg("feedback inbox")
			return nil
		},
	}
	list.Flags().BoolVar(&unread, "unread", false, "only unread messages")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabFeedbacks)
			if err != nil {
				return err
			}
			if err := d.MarkFeedbackRead(ctx, id); err != nil {
				return err
			}
			a.say("Feedback %d marked as read. %d unread.", id, d.Snapshot().UnreadFeedbacks())
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabFeedbacks)
			if err != nil {
				return err
			}
			if err := d.DeleteFeedback(ctx, id); err != nil {
				return err
			}
			a.say("Feedback %d deleted.", id)
			return nil
		},
	}

	var req dto.FeedbackRequest
	var studentID string
	send := &cobra.Command{
		Use:   "send",
		Short: "Send feedback to the department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.StudentID = optional(cmd, "student-id", studentID)
			ctx, cancel := a.context(cmd)
			defer cancel()
			message, err := a.public.SubmitFeedback(ctx, req)
			if err != nil {
				return err
			}
			a.say("%s", message)
			return nil
		},
	}
	flags := send.Flags()
	flags.StringVar(&req.SenderName, "name", "", "your name")
	flags.StringVar(&req.Email, "email", "", "your e-mail")
	flags.StringVar(&studentID, "student-id", "", "student ID")
	flags.StringVar(&req.Subject, "subject", "", "subject")
	flags.StringVar(&req.Message, "message", "", "message")
	for _, name := range []string{"name", "email", "subject", "message"} {
		_ = send.MarkFlagRequired(name)
	}

	cmd.AddCommand(list, read, remove, send)
	return cmd
}

func (a *app) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search approved buddies and articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			result, err := a.public.Search(ctx, args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(result.Buddies)+len(result.Articles))
			for _, item := range result.Buddies {
				rows = append(rows, []string{"buddy", itoa(item.ID), item.FullName, truncate(item.ResearchTopic, 50)})
			}
			for _, item := range result.Articles {
				rows = append(rows, []string{"article", itoa(item.ID), truncate(item.Title, 50), item.Category})
			}
			return a.render(result, []string{"KIND", "ID", "NAME", "DETAIL"}, rows)
		},
	}
}

func (a *app) labsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "labs",
		Short: "List research labs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			labs, err := a.public.Labs(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(labs))
			for _, lab := range labs {
				rows = append(rows, []string{itoa(lab.ID), lab.Name, deref(lab.LeadName), deref(lab.Email), truncate(deref(lab.ResearchAreas), 50)})
			}
			return a.render(labs, []string{"ID", "NAME", "LEAD", "EMAIL", "AREAS"}, rows)
		},
	}
}
