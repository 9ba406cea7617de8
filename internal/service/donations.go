package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iliyamo/biblioteca-doacoes/internal/database"
	"github.com/iliyamo/biblioteca-doacoes/internal/model"
	"github.com/iliyamo/biblioteca-doacoes/internal/repository"
	"github.com/iliyamo/biblioteca-doacoes/internal/utils"
)

const (
	msgDonationRequired = "Nome, email, tipo e item são obrigatórios"
	msgConsentRequired  = "É necessário aceitar os termos da LGPD"
	msgInvalidEmail     = "Email inválido"
	msgInvalidType      = `Tipo deve ser "livro" ou "jogo"`
	msgBookIDRequired   = "livro_id é obrigatório para doações de livro"
	msgBookUnavailable  = "Livro não está disponível"
	msgDonationNotFound = "Doação não encontrada"
	msgFieldTooLong     = "%s deve ter no máximo %d caracteres"
)

// Column widths of doacoes.
const (
	maxNameLen  = 255
	maxEmailLen = 255
	maxItemLen  = 500
)

// DonationInput carries a donation form.  LivroID is only read for book
// donations; Consent is only checked on creation.
type DonationInput struct {
	Nome    string
	Email   string
	Tipo    string
	Item    string
	LivroID *int64
	Consent bool
}

// normalize trims the text fields, lower-cases tipo and checks the rules
// shared by create and update.
func (in *DonationInput) normalize(requireConsent bool) error {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Email = strings.TrimSpace(in.Email)
	in.Tipo = strings.ToLower(strings.TrimSpace(in.Tipo))
	in.Item = strings.TrimSpace(in.Item)
	if utils.Blank(in.Nome, in.Email, in.Tipo, in.Item) {
		return validation(msgDonationRequired)
	}
	for _, f := range []struct {
		label string
		value string
		max   int
	}{
		{"Nome", in.Nome, maxNameLen},
		{"Email", in.Email, maxEmailLen},
		{"Item", in.Item, maxItemLen},
	} {
		if utils.TooLong(f.value, f.max) {
			return validation(fmt.Sprintf(msgFieldTooLong, f.label, f.max))
		}
	}
	if requireConsent && !in.Consent {
		return validation(msgConsentRequired)
	}
	if !utils.IsValidEmail(in.Email) {
		return validation(msgInvalidEmail)
	}
	if !model.ValidDonationType(in.Tipo) {
		return validation(msgInvalidType)
	}
	return nil
}

// DonationService records donations and keeps book stock in step with them.
type DonationService struct {
	db       *sql.DB
	notifier Notifier
	log      *slog.Logger
}

// NewDonationService wires the service.  A nil notifier disables thank-you
// messages.
func NewDonationService(db *sql.DB, n Notifier, log *slog.Logger) *DonationService {
	if log == nil {
		log = slog.Default()
	}
	return &DonationService{db: db, notifier: n, log: log}
}

// List returns donations newest first, filtered by a substring of name,
// email or item and by exact type when given.
func (s *DonationService) List(ctx context.Context, search, tipo string) ([]model.Donation, error) {
	return repository.NewDonationRepo(s.db).List(ctx, search, strings.ToLower(strings.TrimSpace(tipo)))
}

// Get returns one donation.
func (s *DonationService) Get(ctx context.Context, id int64) (*model.Donation, error) {
	d, err := repository.NewDonationRepo(s.db).GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgDonationNotFound)
	}
	return d, err
}

// Create records a donation.  A book donation takes one copy of the
// referenced book in the same transaction; once committed the donor is
// queued for a thank-you message.
func (s *DonationService) Create(ctx context.Context, in DonationInput) (*model.Donation, error) {
	if err := in.normalize(true); err != nil {
		return nil, err
	}
	d := &model.Donation{Nome: in.Nome, Email: in.Email, Tipo: in.Tipo, Item: in.Item}
	if in.Tipo == model.DonationTypeBook {
		if in.LivroID == nil {
			return nil, validation(msgBookIDRequired)
		}
		id := *in.LivroID
		d.LivroID = &id
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t := now()
		if d.LivroID != nil {
			books := repository.NewBookRepo(tx)
			if _, err := books.GetByID(ctx, *d.LivroID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return notFound(msgBookNotFound)
				}
				return err
			}
			ok, err := books.DecrementStock(ctx, *d.LivroID, t)
			if err != nil {
				return err
			}
			if !ok {
				return conflict(msgBookUnavailable)
			}
		}
		return repository.NewDonationRepo(tx).Create(ctx, d, t)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, d)
	return d, nil
}

// notify hands the donor to the notifier.  Failures are logged only; the
// donation is already committed.
func (s *DonationService) notify(ctx context.Context, d *model.Donation) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendThankYou(ctx, d.Email, d.Item); err != nil {
		s.log.Error("thank-you not scheduled", "donation_id", d.ID, "err", err)
	}
}

// Update edits the donor fields.  Stock and livro_id are never touched,
// even when tipo changes.
func (s *DonationService) Update(ctx context.Context, id int64, in DonationInput) (*model.Donation, error) {
	if err := in.normalize(false); err != nil {
		return nil, err
	}
	var d *model.Donation
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		donations := repository.NewDonationRepo(tx)
		cur, err := donations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		cur.Nome, cur.Email, cur.Tipo, cur.Item = in.Nome, in.Email, in.Tipo, in.Item
		if err := donations.Update(ctx, cur); err != nil {
			return err
		}
		d = cur
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgDonationNotFound)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a donation.  A book donation gives its copy back to the
// book when the book still exists.
func (s *DonationService) Delete(ctx context.Context, id int64) error {
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		donations := repository.NewDonationRepo(tx)
		d, err := donations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d.Tipo == model.DonationTypeBook && d.LivroID != nil {
			// a missing book is skipped, not an error
			if _, err := repository.NewBookRepo(tx).IncrementStock(ctx, *d.LivroID, now()); err != nil {
				return err
			}
		}
		return donations.Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msgDonationNotFound)
	}
	return err
}
