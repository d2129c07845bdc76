package i18n

import "fmt"

// Messages 는 한 언어의 고정 문구다. %s 자리에는 사용자/카테고리/상품 이름이 들어간다.
type Messages struct {
	WelcomeLoggedIn   string `json:"-"`
	WelcomeGuest      string `json:"welcomeGuest"`
	LoginPrompt       string `json:"loginPrompt"`
	LoginButton       string `json:"loginButton"`
	CatalogLoading    string `json:"catalogLoading"`
	CatalogError      string `json:"catalogError"`
	NavigateCategory  string `json:"-"`
	NavigateProduct   string `json:"-"`
	ClearConfirm      string `json:"clearConfirm"`
	Placeholder       string `json:"placeholder"`
	HowCanHelp        string `json:"howCanHelp"`
	ConnectionProblem string `json:"-"`
	APIKeyMissing     string `json:"-"`
}

var catalog = map[Lang]Messages{
	Turkish: {
		WelcomeLoggedIn:   "Merhaba %s! 👋\nPeleman'a hoş geldiniz. Size nasıl yardımcı olabilirim?",
		WelcomeGuest:      "Merhaba! Peleman'a hoş geldiniz. 👋\nSize nasıl yardımcı olabilirim? Hangi ürünü arıyorsunuz?",
		LoginPrompt:       "Daha fazla özellik için lütfen giriş yapın. Siparişlerinizi görüntüleyebilir, faturalarınızı indirebilir ve favorilerinizi kaydedebilirsiniz.",
		LoginButton:       "Giriş Yap",
		CatalogLoading:    "Katalog yükleniyor. Lütfen birkaç saniye bekleyin.",
		CatalogError:      "Katalog yüklenemedi. Lütfen sayfayı yenileyip tekrar deneyin.",
		NavigateCategory:  "Harika seçim! Sizi %s sayfasına yönlendiriyorum...",
		NavigateProduct:   "Sizi %s sayfasına yönlendiriyorum...",
		ClearConfirm:      "Sohbet geçmişini temizlemek istediğinizden emin misiniz?",
		Placeholder:       "Mesajınızı yazın...",
		HowCanHelp:        "Size nasıl yardımcı olabilirim?",
		ConnectionProblem: "Üzgünüm, şu an bağlantıda bir sorun yaşıyorum. Lütfen biraz sonra tekrar deneyin.",
		APIKeyMissing:     "API anahtarı eksik. Lütfen WordPress ayarlarından ekleyin.",
	},
	German: {
		WelcomeLoggedIn:   "Hallo %s! 👋\nWillkommen bei Peleman. Wie kann ich Ihnen heute helfen?",
		WelcomeGuest:      "Hallo! Willkommen bei Peleman. 👋\nIch kann Ihnen helfen, das richtige Produkt zu finden. Suchen Sie etwas für sich selbst oder als Geschenk?",
		LoginPrompt:       "Bitte melden Sie sich an, um weitere Funktionen zu nutzen. Sie können Ihre Bestellungen anzeigen, Rechnungen herunterladen und Favoriten speichern.",
		LoginButton:       "Anmelden",
		CatalogLoading:    "Der Katalog wird geladen. Bitte warten Sie einen Moment.",
		CatalogError:      "Der Katalog konnte nicht geladen werden. Bitte aktualisieren Sie die Seite und versuchen Sie es erneut.",
		NavigateCategory:  "Großartige Wahl! Ich bringe Sie zur %s-Seite...",
		NavigateProduct:   "Ich bringe Sie zu %s...",
		ClearConfirm:      "Sind Sie sicher, dass Sie den Chat-Verlauf löschen möchten?",
		Placeholder:       "Geben Sie Ihre Nachricht ein...",
		HowCanHelp:        "Wie kann ich helfen?",
		ConnectionProblem: "Entschuldigung, es gibt gerade ein Verbindungsproblem. Bitte versuchen Sie es später erneut.",
		APIKeyMissing:     "Der API-Schlüssel fehlt. Bitte fügen Sie ihn in den WordPress-Einstellungen hinzu.",
	},
	French: {
		WelcomeLoggedIn:   "Bonjour %s! 👋\nBienvenue chez Peleman. Comment puis-je vous aider aujourd'hui?",
		WelcomeGuest:      "Bonjour! Bienvenue chez Peleman. 👋\nJe peux vous aider à trouver le bon produit. Cherchez-vous quelque chose pour vous-même ou comme cadeau?",
		LoginPrompt:       "Veuillez vous connecter pour accéder à plus de fonctionnalités. Vous pouvez consulter vos commandes, télécharger vos factures et enregistrer vos favoris.",
		LoginButton:       "Se connecter",
		CatalogLoading:    "Le catalogue est en cours de chargement. Veuillez patienter un instant.",
		CatalogError:      "Le catalogue n'a pas pu être chargé. Veuillez actualiser la page et réessayer.",
		NavigateCategory:  "Excellent choix! Je vous redirige vers la page %s...",
		NavigateProduct:   "Je vous redirige vers %s...",
		ClearConfirm:      "Êtes-vous sûr de vouloir effacer l'historique de la conversation?",
		Placeholder:       "Tapez votre message...",
		HowCanHelp:        "Comment puis-je vous aider?",
		ConnectionProblem: "Désolé, je rencontre un problème de connexion. Veuillez réessayer dans un instant.",
		APIKeyMissing:     "La clé API est manquante. Veuillez l'ajouter dans les réglages WordPress.",
	},
	Dutch: {
		WelcomeLoggedIn:   "Hallo %s! 👋\nWelkom bij Peleman. Hoe kan ik u vandaag helpen?",
		WelcomeGuest:      "Hallo! Welkom bij Peleman. 👋\nIk kan u helpen het juiste product te vinden. Zoekt u iets voor uzelf of als cadeau?",
		LoginPrompt:       "Log alstublieft in voor meer functies. U kunt uw bestellingen bekijken, facturen downloaden en favorieten opslaan.",
		LoginButton:       "Inloggen",
		CatalogLoading:    "De catalogus wordt geladen. Even geduld alstublieft.",
		CatalogError:      "De catalogus kon niet worden geladen. Ververs de pagina en probeer het opnieuw.",
		NavigateCategory:  "Uitstekende keuze! Ik breng u naar de %s pagina...",
		NavigateProduct:   "Ik breng u naar %s...",
		ClearConfirm:      "Weet u zeker dat u de chatgeschiedenis wilt wissen?",
		Placeholder:       "Typ uw bericht...",
		HowCanHelp:        "Hoe kan ik helpen?",
		ConnectionProblem: "Sorry, er is momenteel een verbindingsprobleem. Probeer het later opnieuw.",
		APIKeyMissing:     "De API-sleutel ontbreekt. Voeg deze toe in de WordPress-instellingen.",
	},
	English: {
		WelcomeLoggedIn:   "Hello %s! 👋\nWelcome to Peleman. How can I help you today?",
		WelcomeGuest:      "Hello! Welcome to Peleman. 👋\nI can help you find the right product. Are you shopping for yourself or as a gift?",
		LoginPrompt:       "Please log in for more features. You can view your orders, download invoices, and save favorites.",
		LoginButton:       "Log In",
		CatalogLoading:    "Catalog is still loading. Please try again in a moment.",
		CatalogError:      "Catalog could not be loaded. Please refresh the page and try again.",
		NavigateCategory:  "Great choice! Taking you to the %s page...",
		NavigateProduct:   "Taking you to %s...",
		ClearConfirm:      "Are you sure you want to clear the chat history?",
		Placeholder:       "Type your message...",
		HowCanHelp:        "How can I help?",
		ConnectionProblem: "Sorry, I'm having trouble connecting right now. Please try again in a moment.",
		APIKeyMissing:     "API key is missing. Please add it in WordPress settings.",
	},
	Spanish: {
		WelcomeLoggedIn:   "¡Hola %s! 👋\nBienvenido a Peleman. ¿Cómo puedo ayudarte hoy?",
		WelcomeGuest:      "¡Hola! Bienvenido a Peleman. 👋\nPuedo ayudarte a encontrar el producto adecuado. ¿Estás comprando para ti o como regalo?",
		LoginPrompt:       "Por favor, inicia sesión para acceder a más funciones. Puedes ver tus pedidos, descargar facturas y guardar favoritos.",
		LoginButton:       "Iniciar sesión",
		CatalogLoading:    "El catálogo se está cargando. Por favor, inténtalo de nuevo en un momento.",
		CatalogError:      "No se pudo cargar el catálogo. Por favor, actualiza la página e inténtalo de nuevo.",
		NavigateCategory:  "¡Excelente elección! Te llevo a la página de %s...",
		NavigateProduct:   "Te llevo a %s...",
		ClearConfirm:      "¿Estás seguro de que quieres borrar el historial del chat?",
		Placeholder:       "Escribe tu mensaje...",
		HowCanHelp:        "¿Cómo puedo ayudarte?",
		ConnectionProblem: "Lo siento, tengo problemas de conexión en este momento. Por favor, inténtalo de nuevo en un momento.",
		APIKeyMissing:     "Falta la clave de API. Por favor, añádela en los ajustes de WordPress.",
	},
	Greek: {
		WelcomeLoggedIn:   "Γεια σας %s! 👋\nΚαλώς ήρθατε στο Peleman. Πώς μπορώ να σας βοηθήσω σήμερα;",
		WelcomeGuest:      "Γεια σας! Καλώς ήρθατε στο Peleman. 👋\nΜπορώ να σας βοηθήσω να βρείτε το σωστό προϊόν. Ψωνίζετε για τον εαυτό σας ή ως δώρο;",
		LoginPrompt:       "Παρακαλώ συνδεθείτε για περισσότερες λειτουργίες. Μπορείτε να δείτε τις παραγγελίες σας, να κατεβάσετε τιμολόγια και να αποθηκεύσετε αγαπημένα.",
		LoginButton:       "Σύνδεση",
		CatalogLoading:    "Ο κατάλογος φορτώνει. Παρακαλώ δοκιμάστε ξανά σε λίγο.",
		CatalogError:      "Ο κατάλογος δεν μπόρεσε να φορτωθεί. Παρακαλώ ανανεώστε τη σελίδα και δοκιμάστε ξανά.",
		NavigateCategory:  "Εξαιρετική επιλογή! Σας μεταφέρω στη σελίδα %s...",
		NavigateProduct:   "Σας μεταφέρω στο %s...",
		ClearConfirm:      "Είστε σίγουροι ότι θέλετε να διαγράψετε το ιστορικό συνομιλίας;",
		Placeholder:       "Γράψτε το μήνυμά σας...",
		HowCanHelp:        "Πώς μπορώ να βοηθήσω;",
		ConnectionProblem: "Λυπάμαι, αντιμετωπίζω πρόβλημα σύνδεσης αυτή τη στιγμή. Παρακαλώ δοκιμάστε ξανά σε λίγο.",
		APIKeyMissing:     "Λείπει το κλειδί API. Παρακαλώ προσθέστε το στις ρυθμίσεις του WordPress.",
	},
}

// For 는 lang 의 문구를 반환한다. 지원하지 않는 언어면 English 문구다.
func For(lang Lang) Messages {
	if m, ok := catalog[lang]; ok {
		return m
	}
	return catalog[Default]
}

// Welcome 은 로그인 사용자 이름이 있으면 이름을 넣은 인사를, 없으면 손님 인사를 반환한다.
func (m Messages) Welcome(userName string) string {
	if userName == "" {
		return m.WelcomeGuest
	}
	return fmt.Sprintf(m.WelcomeLoggedIn, userName)
}

func (m Messages) NavigatingToCategory(name string) string {
	return fmt.Sprintf(m.NavigateCategory, name)
}

func (m Messages) NavigatingToProduct(name string) string {
	return fmt.Sprintf(m.NavigateProduct, name)
}
