package console

import (
	"context"
	"fmt"

	"github.com/nonsonwune/admitere_admin/resource"
)

// crudPage drives one resource controller through the list / add / edit / delete menu.
type crudPage[T, D, P any] struct {
	title   string
	ctrl    *resource.Controller[T, D, P]
	headers []string
	row     func(T) []string
	// fill prompts for every field of the draft; editing tells whether it edits an item.
	fill func(ctx context.Context, d *D, editing bool) error
	// filter, when set, adds a filter entry to the page menu.
	filter func(ctx context.Context) error
}

// Load failures are not returned: the message sits in the controller's error slot and
// render prints it.
func runCrud[T, D, P any](ctx context.Context, c *Console, p crudPage[T, D, P]) error {
	defer p.ctrl.Dispose()

	c.title("=== " + p.title + " ===")
	_ = p.ctrl.Load(ctx)
	for {
		p.render(c)
		c.println("1. Adauga")
		c.println("2. Editeaza")
		c.println("3. Sterge")
		c.println("4. Reincarca")
		if p.filter != nil {
			c.println("5. Filtreaza")
			c.println("6. Reseteaza filtrul")
		}
		c.println("0. Inapoi")
		choice, err := c.prompt("Alege")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			p.ctrl.CancelEdit()
			err = p.submit(ctx, c)
		case "2":
			err = p.edit(ctx, c)
		case "3":
			err = p.remove(ctx, c)
		case "4":
			_ = p.ctrl.Load(ctx)
		case "5", "6":
			if p.filter == nil {
				c.fail("Optiune invalida.")
				continue
			}
			if choice == "5" {
				err = p.filter(ctx)
			} else {
				_ = p.ctrl.LoadWith(ctx, nil)
			}
		case "0":
			return nil
		default:
			c.fail("Optiune invalida.")
		}
		if err != nil {
			return err
		}
	}
}

func (p crudPage[T, D, P]) render(c *Console) {
	s := p.ctrl.Snapshot()
	if len(s.Filter) > 0 {
		c.println("Filtru:", s.Filter.Encode())
	}
	rows := make([][]string, 0, len(s.Items))
	for _, item := range s.Items {
		rows = append(rows, p.row(item))
	}
	c.table(p.headers, rows)
	if s.Error != "" {
		c.fail(s.Error)
	}
}

func (p crudPage[T, D, P]) submit(ctx context.Context, c *Console) error {
	s := p.ctrl.Snapshot()
	form := s.Form
	if err := p.fill(ctx, &form, s.Editing()); err != nil {
		return err
	}
	p.ctrl.SetForm(func(d *D) { *d = form })
	if err := p.ctrl.Submit(ctx); err != nil {
		return c.ignoreRemote(err)
	}
	c.success("Salvat.")
	return nil
}

func (p crudPage[T, D, P]) edit(ctx context.Context, c *Console) error {
	id, ok, err := c.promptID("ID de editat")
	if err != nil || !ok {
		return err
	}
	item, found := p.ctrl.Find(id)
	if !found {
		c.fail(fmt.Sprintf("Nu exista inregistrarea %d.", id))
		return nil
	}
	p.ctrl.StartEdit(item)
	return p.submit(ctx, c)
}

func (p crudPage[T, D, P]) remove(ctx context.Context, c *Console) error {
	id, ok, err := c.promptID("ID de sters")
	if err != nil || !ok {
		return err
	}
	yes, err := c.confirm(fmt.Sprintf("Stergi inregistrarea %d?", id))
	if err != nil || !yes {
		return err
	}
	if err := p.ctrl.Delete(ctx, id); err != nil {
		return c.ignoreRemote(err)
	}
	c.success("Sters.")
	return nil
}
