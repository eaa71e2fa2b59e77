package site

type Step struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Milestone struct {
	Day         string `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TeamMember struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

type Figure struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// HowItWorks is the /comment-ca-marche page.
type HowItWorks struct {
	Steps      []Step      `json:"steps"`
	Guarantees []Feature   `json:"guarantees"`
	Schedule   []Milestone `json:"schedule"`
}

// About is the /a-propos page.
type About struct {
	Values  []Feature    `json:"values"`
	Team    []TeamMember `json:"team"`
	History []Feature    `json:"history"`
	Figures []Figure     `json:"figures"`
}

var howItWorks = HowItWorks{
	Steps: []Step{
		{1, "Découvrez & Choisissez", "Trouvez l'artiste parfait", "Parcourez notre sélection d'artistes vérifiés, consultez leurs portfolios, lisez les avis clients et trouvez celui qui correspond à votre vision artistique."},
		{2, "Échangez & Négociez", "Définissez votre projet ensemble", "Contactez l'artiste, décrivez votre vision, négociez le prix et planifiez les détails de votre projet en toute transparence."},
		{3, "Créez & Suivez", "Votre œuvre prend vie", "L'artiste réalise votre fresque pendant que vous suivez l'avancement en temps réel grâce à notre système de suivi intégré."},
		{4, "Admirez & Évaluez", "Votre espace transformé", "Profitez de votre nouvelle œuvre d'art urbain et partagez votre expérience en laissant un avis pour aider la communauté."},
	},
	Guarantees: []Feature{
		{"Sécurité Garantie", "Artistes vérifiés, paiements sécurisés et assurance projet incluse"},
		{"Prix Transparents", "Devis détaillés, pas de frais cachés, paiement échelonné selon l'avancement"},
		{"Communauté Active", "Plus de 1000+ projets réalisés, réseau d'artistes professionnels"},
		{"Satisfaction Client", "98% de satisfaction client, support dédié tout au long du projet"},
	},
	Schedule: []Milestone{
		{"J+0", "Premier Contact", "Discussion initiale avec l'artiste, visite du mur"},
		{"J+2", "Devis & Validation", "Réception du devis détaillé, signature du contrat"},
		{"J+7", "Préparation", "Achat des matériaux, préparation du mur"},
		{"J+10", "Réalisation", "Création de la fresque (3-5 jours selon complexité)"},
		{"J+15", "Livraison", "Finalisation, nettoyage, réception de l'œuvre"},
	},
}

var about = About{
	Values: []Feature{
		{"Passion Artistique", "Nous croyons en la puissance transformatrice de l'art urbain et du street art pour embellir nos espaces de vie et créer du lien social."},
		{"Communauté", "WXLLSPACE unit artistes et propriétaires dans une communauté bienveillante où chacun peut exprimer sa créativité et ses besoins."},
		{"Qualité", "Nous sélectionnons rigoureusement nos artistes partenaires pour garantir un service professionnel et des œuvres de haute qualité."},
		{"Accessibilité", "L'art ne doit pas être réservé aux galeries. Nous démocratisons l'accès à l'art en rendant possible sa création dans tous les espaces."},
	},
	Team: []TeamMember{
		{"Marie Dubois", "Fondatrice & CEO", "Passionnée d'art urbain depuis 10 ans, Marie a créé WXLLSPACE pour démocratiser l'accès à l'art mural."},
		{"Thomas Laurent", "Directeur Artistique", "Ancien street artist reconnu, Thomas supervise la sélection des artistes et garantit la qualité des projets."},
		{"Sarah Martin", "Responsable Communauté", "Sarah accompagne nos utilisateurs au quotidien et anime notre communauté d'artistes et de clients."},
	},
	History: []Feature{
		{"Naissance de l'idée", "Marie Dubois imagine une plateforme pour connecter artistes et propriétaires de murs"},
		{"Lancement de la beta", "Premiers tests avec 5 artistes pilotes à Paris et Lyon"},
		{"Expansion nationale", "Ouverture dans 10 grandes villes françaises"},
		{"1000+ projets réalisés", "Dépassement du cap des 1000 œuvres créées via la plateforme"},
	},
	Figures: []Figure{
		{"18+", "Artistes partenaires"},
		{"1200+", "Projets réalisés"},
		{"25+", "Villes couvertes"},
		{"4.8/5", "Satisfaction client"},
	},
}
