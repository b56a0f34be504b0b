package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scott-cotton/cli"

	"schoolku_backend/internals/client"
	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/helpers/formdata"
)

const rootDescription = `schoolctl works with the nested multipart forms of the school API.

Input files are YAML; each document is one form. Mappings become form
sections joined with dots (personal.first_name), lists are sent comma
separated and strings starting with @ are attached as files.

  personal:
    first_name: Siti
    photo: "@siti.jpg"
  academic:
    student_number: S-0042
    grade_level: 7
  parent_ids: [3f1c..., 9ab2...]`

func Root() *cli.Command {
	return cli.NewCommand("schoolctl").
		WithSynopsis("schoolctl <command> [opts]").
		WithDescription(rootDescription).
		WithSubs(
			FlattenCommand(),
			SubmitCommand())
}

type flattenConfig struct {
	*cli.Command
	Nulls bool `cli:"name=nulls desc='print null values as empty strings'"`
}

func FlattenCommand() *cli.Command {
	cfg := &flattenConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "flatten").
		WithAliases("f").
		WithSynopsis("flatten [-nulls] <file.yaml|->").
		WithDescription("print the form fields each document would be sent as").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *flattenConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: flatten requires one file", cli.ErrUsage)
	}
	trees, err := loadTreesFile(args[0])
	if err != nil {
		return err
	}
	return flattenTo(cc.Out, trees, &formdata.EncodeOptions{IncludeNullValues: cfg.Nulls})
}

func flattenTo(w io.Writer, trees []formdata.Object, opt *formdata.EncodeOptions) error {
	p := newPrinter(w)
	for i, tree := range trees {
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		p.parts(formdata.Encode(formdata.Flatten(tree), opt))
	}
	return nil
}

type submitConfig struct {
	*cli.Command
	URL      string `cli:"name=url desc='API base URL (default $SCHOOLCTL_URL)'"`
	Token    string `cli:"name=token desc='bearer token (default $SCHOOLCTL_TOKEN)'"`
	Email    string `cli:"name=email desc='log in with this account instead of -token'"`
	Password string `cli:"name=password desc='password for -email (default $SCHOOLCTL_PASSWORD)'"`
	Resource string `cli:"name=resource desc='students, teachers, parents or rooms'"`
	ID       string `cli:"name=id desc='update this record with PATCH instead of creating'"`
	Step     string `cli:"name=step desc='only validate this section'"`
	Nulls    bool   `cli:"name=nulls desc='send null values as empty strings'"`
}

func SubmitCommand() *cli.Command {
	cfg := &submitConfig{Resource: "students"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "submit").
		WithAliases("s").
		WithSynopsis("submit [-url u] [-token t | -email e] [-resource r] [-id id | -step s] <file.yaml|->").
		WithDescription("send each document as a multipart form").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *submitConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: submit requires one file", cli.ErrUsage)
	}
	if cfg.ID != "" && cfg.Step != "" {
		return fmt.Errorf("%w: only one of -id, -step may be specified", cli.ErrUsage)
	}
	trees, err := loadTreesFile(args[0])
	if err != nil {
		return err
	}

	cl := client.New(firstNonEmpty(cfg.URL, configs.GetEnv("SCHOOLCTL_URL")), firstNonEmpty(cfg.Token, configs.GetEnv("SCHOOLCTL_TOKEN")))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if cfg.Email != "" {
		if err := cl.Login(ctx, cfg.Email, firstNonEmpty(cfg.Password, configs.GetEnv("SCHOOLCTL_PASSWORD"))); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	if failed := submitAll(ctx, cl, newPrinter(cc.Out), cfg.target(), trees); failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// submitTarget says where each document goes.
type submitTarget struct {
	Resource, ID, Step string
	Options            *formdata.EncodeOptions
}

func (cfg *submitConfig) target() submitTarget {
	return submitTarget{
		Resource: strings.Trim(cfg.Resource, "/"),
		ID:       cfg.ID,
		Step:     cfg.Step,
		Options:  &formdata.EncodeOptions{IncludeNullValues: cfg.Nulls},
	}
}

// submitAll sends every tree and reports each answer; it returns how many
// were rejected.
func submitAll(ctx context.Context, cl *client.Client, p *printer, t submitTarget, trees []formdata.Object) int {
	failed := 0
	for i, tree := range trees {
		var (
			res *client.Response
			err error
		)
		label := fmt.Sprintf("%s #%d", t.Resource, i+1)
		switch {
		case t.Step != "":
			label += " [" + t.Step + "]"
			res, err = cl.ValidateStep(ctx, t.Resource, t.Step, tree)
		case t.ID != "":
			res, err = cl.SubmitForm(ctx, fiber.MethodPatch, "/api/a/"+t.Resource+"/"+t.ID, tree, t.Options)
		default:
			res, err = cl.SubmitForm(ctx, fiber.MethodPost, "/api/a/"+t.Resource, tree, t.Options)
		}
		p.result(label, res, err)
		if err != nil {
			failed++
		}
	}
	return failed
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
