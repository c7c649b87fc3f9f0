package recommendation

import "parche-recommender/internal/models"

// ==========================
// Test Fixtures
// ==========================

func testCatalog() []models.PlanRecord {
	return []models.PlanRecord{
		{ID: "p1", Name: "Rooftop Sunset", Category: "rooftop", Description: "Terraza con vista a la ciudad y cocteles de autor", Rating: 4.8, Tags: []string{"atardecer", "pareja"}},
		{ID: "p2", Name: "La Octava", Category: "discoteca", Description: "Rumba crossover hasta el amanecer", Rating: 4.2, Tags: []string{"rumba"}},
		{ID: "p3", Name: "Salsa al Parque", Category: "bar", Description: "Bar de salsa en Provenza", Rating: 4.0, Tags: []string{"salsa", "baile"}},
		{ID: "p4", Name: "Hatoviejo", Category: "restaurante", Description: "Comida típica antioqueña", Rating: 4.4, Tags: []string{"bandeja paisa"}},
		{ID: "p5", Name: "Café Pergamino", Category: "café", Description: "Café de especialidad", Rating: 4.6, Tags: []string{"brunch"}},
		{ID: "p6", Name: "Parapente San Félix", Category: "aventura", Description: "Vuelo en parapente sobre el valle", Rating: 4.3, Tags: []string{"adrenalina"}},
		{ID: "p7", Name: "Museo de Antioquia", Category: "museo", Description: "Obras de Botero en el centro", Rating: 4.4, Tags: []string{"arte", "historia"}},
		{ID: "p8", Name: "Parque Arví", Category: "parque", Description: "Reserva natural con senderos", Rating: 4.3, Tags: []string{"naturaleza"}},
	}
}

func planByID(catalog []models.PlanRecord, id string) (models.PlanRecord, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return models.PlanRecord{}, false
}

func turns(pairs ...string) []models.ConversationTurn {
	out := make([]models.ConversationTurn, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.ConversationTurn{Role: models.Role(pairs[i]), Content: pairs[i+1]})
	}
	return out
}
