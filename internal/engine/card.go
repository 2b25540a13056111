package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-vernissage/internal/config"
)

// ArtistCard renders the artist as a vCard 4.0 document.
func ArtistCard(artist Artist) ([]byte, error) {
	name := strings.TrimSpace(artist.Name)
	if name == "" {
		name = config.FallbackName
	}

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldKind, config.VCardKind)
	card.SetValue(vcard.FieldFormattedName, name)
	card.SetName(splitName(name))

	optional := []struct{ field, value string }{
		{vcard.FieldEmail, artist.Email},
		{vcard.FieldURL, artist.Website},
		{vcard.FieldRole, artist.Role},
		{vcard.FieldNote, artist.Bio},
	}
	for _, o := range optional {
		if v := strings.TrimSpace(o.value); v != "" {
			card.SetValue(o.field, v)
		}
	}

	var buf bytes.Buffer
	if err := vcard.NewEncoder(&buf).Encode(card); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
	}

	slog.Debug(config.MsgCardBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyName, name)
	return buf.Bytes(), nil
}

// splitName treats the last word as the family name.
func splitName(full string) *vcard.Name {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return &vcard.Name{GivenName: full}
	}
	return &vcard.Name{
		GivenName:  strings.Join(parts[:len(parts)-1], " "),
		FamilyName: parts[len(parts)-1],
	}
}
