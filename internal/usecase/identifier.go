package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/internal/domain"
)

// defaultImageFoodName is used when the model names nothing in a photo
const defaultImageFoodName = "aliment"

const replyFormat = `Réponds uniquement avec ces deux lignes, sans autre texte :
Aliment : [nom de l'aliment]
Vitamine K : [quantité en microgrammes pour 100 g, suivie de l'unité µg, par exemple "180 µg"]
Appuie-toi sur les sources officielles (CIQUAL, USDA) et donne la valeur la plus fiable possible. Si tu n'es pas certain, donne une estimation plausible et précise.
Exemple :
Aliment : basilic
Vitamine K : 415 µg`

const imagePrompt = `Tu es un expert en nutrition. Identifie l'aliment visible sur la photo jointe.
` + replyFormat

const textPromptTemplate = `Tu es un expert en nutrition. Corrige ou reconnais l'aliment suivant : "%s".
` + replyFormat

// Compiled reply patterns; (?i) also folds µ with the Greek μ
var (
	alimentPattern  = regexp.MustCompile(`(?i)Aliment\s*:\s*(.+)`)
	vitaminKPattern = regexp.MustCompile(`(?i)Vitamine K\s*:\s*([\d,.]+\s*µg)`)
)

// IdentifierService asks the generative model what a food is and how much
// Vitamin K it holds
type IdentifierService struct {
	model  domain.TextVisionModel
	logger logrus.FieldLogger
}

// NewIdentifierService creates a new identifier backed by model
func NewIdentifierService(model domain.TextVisionModel, logger logrus.FieldLogger) *IdentifierService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &IdentifierService{
		model:  model,
		logger: logger.WithField("component", "identifier"),
	}
}

// Identify runs the image prompt when an image is present, the text prompt otherwise.
// Extraction is best-effort: a reply without the expected lines falls back to the
// input name and domain.UnknownVitaminK instead of failing.
func (s *IdentifierService) Identify(ctx context.Context, query domain.FoodQuery) (*domain.IdentifiedFood, error) {
	if query.IsEmpty() {
		return nil, domain.ErrClientInput
	}

	if strings.TrimSpace(query.Image) != "" {
		image, err := DecodeDataURI(query.Image)
		if err != nil {
			return nil, err
		}

		reply, err := s.model.Generate(ctx, imagePrompt, image)
		if err != nil {
			return nil, fmt.Errorf("identifying image: %w", err)
		}

		food := ParseModelReply(reply, defaultImageFoodName)
		s.logReply(food, "image")
		return &food, nil
	}

	name := strings.TrimSpace(query.Aliment)
	reply, err := s.model.Generate(ctx, fmt.Sprintf(textPromptTemplate, name), nil)
	if err != nil {
		return nil, fmt.Errorf("identifying %q: %w", name, err)
	}

	food := ParseModelReply(reply, name)
	s.logReply(food, "text")
	return &food, nil
}

func (s *IdentifierService) logReply(food domain.IdentifiedFood, mode string) {
	s.logger.WithFields(logrus.Fields{
		"mode":     mode,
		"name":     food.Name,
		"estimate": food.EstimatedValue,
	}).Debug("food identified")
}

// ParseModelReply extracts the "Aliment :" and "Vitamine K :" lines of a reply.
// Missing lines fall back to fallbackName and domain.UnknownVitaminK.
func ParseModelReply(reply, fallbackName string) domain.IdentifiedFood {
	food := domain.IdentifiedFood{
		Name:           fallbackName,
		EstimatedValue: domain.UnknownVitaminK,
	}

	if m := alimentPattern.FindStringSubmatch(reply); m != nil {
		// models sometimes wrap values in markdown emphasis
		if name := strings.Trim(strings.TrimSpace(m[1]), "*_` "); name != "" {
			food.Name = name
		}
	}
	if m := vitaminKPattern.FindStringSubmatch(reply); m != nil {
		food.EstimatedValue = strings.TrimSpace(m[1])
	}

	return food
}
