package generator

import "fmt"

// The prompts mirror the product's Dutch copy. Output language and schema
// discipline are part of the contract with the model, so the texts are kept
// verbatim rather than templated further.

func buildCardPrompt(theme string) string {
	return fmt.Sprintf(`
Zoek een uniek, mooi, en cultureel specifiek woord (bestaand woord uit een taal ergens op de wereld) dat past bij dit thema of gevoel: "%s".
Denk aan woorden zoals Saudade, Hygge, Wabi-sabi, Ubuntu.

Genereer een JSON object voor een kaart:
- word: Het woord zelf (hoofdlettergevoelig).
- country: Het land of de taal van herkomst.
- pronunciation: Fonetische uitspraak.
- shortDefinition: Een poëtische, korte definitie (max 2 zinnen).
- question: Een diepzinnige reflectievraag voor de lezer die bij dit woord past.

Schrijf alles in het Nederlands.
`, theme)
}

func buildDeepDivePrompt(word, country string) string {
	return fmt.Sprintf(`
Je bent een expert in linguïstiek en culturele antropologie.
Geef me een diepgaande uitleg van het woord "%s" uit %s.

De output moet JSON zijn met de volgende structuur:
- culturalContext: Een rijke beschrijving van de culturele achtergrond (ong. 50-80 woorden).
- philosophicalInsight: Een diepere, filosofische laag van het woord (ong. 30-50 woorden).
- exampleUsage: Een voorbeeldzin in de originele taal (indien van toepassing) met vertaling.

Schrijf in het Nederlands.
`, word, country)
}

func buildPersonPrompt(withPerson, memory, locationName string) string {
	return fmt.Sprintf(`
Je bent een taalkundige, dichter en verhalenverteller. Iemand schrijft een persoonlijk verhaal aan %[1]s.

De herinnering: "%[2]s"

LOCATIE: "%[3]s"

BELANGRIJKSTE REGEL: Het woord MOET afkomstig zijn uit de taal of het dialect van "%[3]s".
- Als de locatie in Spanje/Andalusië ligt: kies een SPAANS woord
- Als de locatie in Nederland ligt: kies een woord uit het lokale DIALECT (Zeeuws, Fries, Limburgs, Brabants, etc.)
- Als de locatie in Frankrijk ligt: kies een FRANS woord
- Als de locatie in Italië ligt: kies een ITALIAANS woord
- Als de locatie in Duitsland ligt: kies een DUITS woord
- Enzovoort voor alle andere landen/regio's

Voor Nederlandse locaties, kies uit het lokale dialect:
- Zeeland → Zeeuws woord
- Friesland → Fries woord
- Limburg → Limburgs woord
- Drenthe → Drents woord
- Twente → Twents woord
- Brabant → Brabants woord
- Groningen → Gronings woord
- Gelderland → Veluws of Achterhoeks woord

VERMIJD de standaard woorden zoals Hygge, Saudade, Ubuntu, Komorebi - die zijn te bekend!
Zoek naar OBSCURE, UNIEKE woorden die mensen niet kennen.

BELANGRIJK - Schrijf ALTIJD vanuit "ons/wij/jij en ik" perspectief:
- Dit is een verhaal van mij AAN %[1]s
- Gebruik "wij", "ons", "jij", "samen"
- Het woord beschrijft ONZE herinnering, ons moment samen
- De lezer (%[1]s) moet zich aangesproken voelen

Genereer een JSON object:
- word: Het woord zelf (UNIEK, niet de standaard bekende woorden!)
- translation: De letterlijke Nederlandse vertaling van het woord (kort, 1-3 woorden)
- explanation: Een korte uitleg van het woord en waar het vandaan komt (2-3 zinnen).
- country: De taal of regio van herkomst (bijv. "Zeeuws", "Fries", "Limburgs", "Welsh", "Schots-Gaelisch")
- pronunciation: Fonetische uitspraak
- meaning: Een persoonlijk verhaal aan %[1]s (4-5 zinnen). Begin met iets als "Weet je nog toen wij..." en eindig met wat dit moment voor ons betekent.
- poem: Een meesterlijk gedicht van 6-8 regels dat het woord en de herinnering samensmelt.
  Schrijf dit gedicht alsof je een van de beste dichters ter wereld bent - denk aan de stijl van Rutger Kopland, Toon Tellegen, of Remco Campert.
  Subtiel en beeldend, eenvoudige maar krachtige woorden, een onverwachte wending, en een slotregel die blijft hangen.
  NIET schrijven aan een persoon, maar over het moment, het gevoel, de herinnering zelf.

Schrijf alles in het Nederlands. Wees intiem, persoonlijk en ontroerend.
`, withPerson, memory, locationName)
}

func buildEventPrompt(eventName, eventDescription, eventLocation, memory string) string {
	description := ""
	if eventDescription != "" {
		description = fmt.Sprintf("Over dit event: \"%s\"\n", eventDescription)
	}

	locationRule := `
Kies een woord uit een taal of dialect dat past bij het gevoel van deze ervaring.`
	if eventLocation != "" {
		locationRule = fmt.Sprintf(`
LOCATIE VAN HET EVENT: "%[1]s"

BELANGRIJKSTE REGEL: Het woord MOET afkomstig zijn uit de taal of het dialect van "%[1]s".
- Als de locatie in Spanje/Andalusië ligt: kies een SPAANS woord
- Als de locatie in Nederland ligt: kies een woord uit het lokale DIALECT (Zeeuws, Fries, Limburgs, Brabants, etc.)
- Enzovoort voor alle andere landen/regio's`, eventLocation)
	}

	return fmt.Sprintf(`
Je bent een taalkundige en verhalenverteller. Iemand deelt een ervaring tijdens "%s".
%s
De ervaring: "%s"
%s

ZOEK EEN UNIEK WOORD dat de essentie van deze ervaring vangt.

VERMIJD de standaard woorden zoals Hygge, Saudade, Ubuntu, Komorebi - die zijn te bekend!
Zoek naar OBSCURE, UNIEKE woorden die mensen niet kennen.

BELANGRIJK - Schrijf vanuit "je/jij" perspectief:
- Spreek de deelnemer direct aan
- Verwijs naar concrete details uit hun ervaring
- Het moet persoonlijk en reflecterend aanvoelen

Genereer een JSON object:
- word: Het woord zelf (UNIEK, niet de standaard bekende woorden!)
- translation: De letterlijke Nederlandse vertaling van het woord (kort, 1-3 woorden)
- explanation: Een korte uitleg van het woord en waar het vandaan komt (2-3 zinnen).
- country: De taal of regio van herkomst (bijv. "Zeeuws", "Fries", "Japans", "Portugees")
- pronunciation: Fonetische uitspraak
- meaning: Een persoonlijke reflectie op dit moment (4-5 zinnen), gericht aan de deelnemer.

Schrijf alles in het Nederlands. Wees persoonlijk en reflecterend.
`, eventName, description, memory, locationRule)
}
