package explain

import (
	"fmt"
	"math/rand/v2"
)

// Persona is the writer whose voice the explanations imitate.
type Persona string

const (
	Shevchenko Persona = "shevchenko"
	Lesya      Persona = "lesya"
	Franko     Persona = "franko"
	// Random picks one of the above for every request.
	Random Persona = "random"
)

var personaNames = map[Persona]string{
	Shevchenko: "Тарас Шевченко",
	Lesya:      "Леся Українка",
	Franko:     "Іван Франко",
}

// Personas lists the concrete personas in a stable order.
var Personas = []Persona{Shevchenko, Lesya, Franko}

// Name is the writer's name as it appears in prompts.
func (p Persona) Name() string {
	return personaNames[p]
}

// ParsePersona accepts a persona code; empty means Shevchenko.
func ParsePersona(s string) (Persona, error) {
	switch p := Persona(s); p {
	case "":
		return Shevchenko, nil
	case Shevchenko, Lesya, Franko, Random:
		return p, nil
	}
	return "", fmt.Errorf("unknown persona %q", s)
}

func (p Persona) resolve(rng *rand.Rand) Persona {
	if p != Random {
		return p
	}
	if rng == nil {
		return Personas[rand.IntN(len(Personas))]
	}
	return Personas[rng.IntN(len(Personas))]
}
