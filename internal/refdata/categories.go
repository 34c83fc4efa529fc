package refdata

// UmbrellaCategory is one of the fixed therapeutic groupings used for
// analytics. The set is closed: 23 medicine umbrellas plus the two
// non-medicine labels below.
type UmbrellaCategory string

// The 23 medicine umbrella categories.
const (
	UmbrellaAntibiotics      UmbrellaCategory = "antibiotics"
	UmbrellaAnalgesics       UmbrellaCategory = "analgesics"
	UmbrellaAntimalarials    UmbrellaCategory = "antimalarials"
	UmbrellaAntivirals       UmbrellaCategory = "antivirals"
	UmbrellaAntifungals      UmbrellaCategory = "antifungals"
	UmbrellaAntiparasitics   UmbrellaCategory = "antiparasitics"
	UmbrellaCardiovascular   UmbrellaCategory = "cardiovascular"
	UmbrellaAntidiabetics    UmbrellaCategory = "antidiabetics"
	UmbrellaGastrointestinal UmbrellaCategory = "gastrointestinal"
	UmbrellaRespiratory      UmbrellaCategory = "respiratory"
	UmbrellaAllergy          UmbrellaCategory = "allergy"
	UmbrellaDermatology      UmbrellaCategory = "dermatology"
	UmbrellaVitamins         UmbrellaCategory = "vitamins_supplements"
	UmbrellaNeurology        UmbrellaCategory = "neurology"
	UmbrellaPsychiatry       UmbrellaCategory = "psychiatry"
	UmbrellaAnesthetics      UmbrellaCategory = "anesthetics"
	UmbrellaEndocrine        UmbrellaCategory = "endocrine"
	UmbrellaReproductive     UmbrellaCategory = "reproductive_health"
	UmbrellaOphthalmic       UmbrellaCategory = "ophthalmic"
	UmbrellaENT              UmbrellaCategory = "ent"
	UmbrellaMusculoskeletal  UmbrellaCategory = "musculoskeletal"
	UmbrellaOncology         UmbrellaCategory = "oncology"
	UmbrellaVaccines         UmbrellaCategory = "vaccines_immunologicals"
)

// Non-medicine category labels.
const (
	CategoryMedicalSupplies UmbrellaCategory = "medical_supplies"
	CategoryEquipment       UmbrellaCategory = "equipment"
)

// MedicineUmbrellas lists all 23 medicine umbrella categories.
var MedicineUmbrellas = []UmbrellaCategory{
	UmbrellaAntibiotics, UmbrellaAnalgesics, UmbrellaAntimalarials,
	UmbrellaAntivirals, UmbrellaAntifungals, UmbrellaAntiparasitics,
	UmbrellaCardiovascular, UmbrellaAntidiabetics, UmbrellaGastrointestinal,
	UmbrellaRespiratory, UmbrellaAllergy, UmbrellaDermatology,
	UmbrellaVitamins, UmbrellaNeurology, UmbrellaPsychiatry,
	UmbrellaAnesthetics, UmbrellaEndocrine, UmbrellaReproductive,
	UmbrellaOphthalmic, UmbrellaENT, UmbrellaMusculoskeletal,
	UmbrellaOncology, UmbrellaVaccines,
}

// NonMedicineCategories lists the two labels valid for non-medicine rows.
var NonMedicineCategories = []UmbrellaCategory{
	CategoryMedicalSupplies, CategoryEquipment,
}

// CategoryCodes maps the 3-letter therapeutic codes carried by the official
// template's identity block to umbrella categories.
var CategoryCodes = map[string]UmbrellaCategory{
	"ABX": UmbrellaAntibiotics,
	"ANL": UmbrellaAnalgesics,
	"AML": UmbrellaAntimalarials,
	"AVR": UmbrellaAntivirals,
	"AFG": UmbrellaAntifungals,
	"APR": UmbrellaAntiparasitics,
	"CVS": UmbrellaCardiovascular,
	"DIA": UmbrellaAntidiabetics,
	"GIT": UmbrellaGastrointestinal,
	"RSP": UmbrellaRespiratory,
	"ALG": UmbrellaAllergy,
	"DRM": UmbrellaDermatology,
	"VIT": UmbrellaVitamins,
	"NEU": UmbrellaNeurology,
	"PSY": UmbrellaPsychiatry,
	"ANS": UmbrellaAnesthetics,
	"END": UmbrellaEndocrine,
	"RPH": UmbrellaReproductive,
	"OPH": UmbrellaOphthalmic,
	"ENT": UmbrellaENT,
	"MSK": UmbrellaMusculoskeletal,
	"ONC": UmbrellaOncology,
	"VAC": UmbrellaVaccines,
	"SUP": CategoryMedicalSupplies,
	"EQP": CategoryEquipment,
}

// CategoryKeyword is a single weighted keyword inside an umbrella rule set.
// Strong signals (drug class names, well-known molecules) carry weight 3,
// supporting vocabulary carries 2, and weak contextual words carry 1.
type CategoryKeyword struct {
	Keyword string
	Weight  float64
}

// CategoryRules maps each umbrella category to its weighted keyword set.
// The classifier sums the weights of all keywords found in the input text
// and applies minimum-score and minimum-separation guardrails.
var CategoryRules = map[UmbrellaCategory][]CategoryKeyword{
	UmbrellaAntibiotics: {
		{"antibiotic", 3}, {"amoxicillin", 3}, {"penicillin", 3},
		{"azithromycin", 3}, {"ciprofloxacin", 3}, {"cephalexin", 3},
		{"ceftriaxone", 3}, {"doxycycline", 3}, {"metronidazole", 3},
		{"erythromycin", 3}, {"gentamicin", 3}, {"clavulanate", 2},
		{"cefixime", 3}, {"ampicillin", 3}, {"cloxacillin", 3},
		{"cillin", 2}, {"mycin", 1}, {"floxacin", 2}, {"cef", 1},
	},
	UmbrellaAnalgesics: {
		{"analgesic", 3}, {"paracetamol", 3}, {"acetaminophen", 3},
		{"ibuprofen", 3}, {"diclofenac", 3}, {"aspirin", 3},
		{"naproxen", 3}, {"tramadol", 3}, {"morphine", 3},
		{"codeine", 3}, {"ketorolac", 3}, {"pain", 2}, {"painkiller", 3},
		{"antipyretic", 2}, {"fever", 1}, {"nsaid", 3}, {"mefenamic", 3},
	},
	UmbrellaAntimalarials: {
		{"antimalarial", 3}, {"malaria", 3}, {"artemether", 3},
		{"lumefantrine", 3}, {"artesunate", 3}, {"chloroquine", 3},
		{"quinine", 3}, {"mefloquine", 3}, {"primaquine", 3},
		{"sulfadoxine", 2}, {"pyrimethamine", 2},
	},
	UmbrellaAntivirals: {
		{"antiviral", 3}, {"acyclovir", 3}, {"aciclovir", 3},
		{"oseltamivir", 3}, {"tenofovir", 3}, {"lamivudine", 3},
		{"efavirenz", 3}, {"ritonavir", 3}, {"remdesivir", 3},
		{"antiretroviral", 3}, {"zidovudine", 3}, {"hiv", 2},
	},
	UmbrellaAntifungals: {
		{"antifungal", 3}, {"fluconazole", 3}, {"ketoconazole", 3},
		{"clotrimazole", 3}, {"miconazole", 3}, {"itraconazole", 3},
		{"nystatin", 3}, {"terbinafine", 3}, {"griseofulvin", 3},
		{"fungal", 2}, {"candida", 2},
	},
	UmbrellaAntiparasitics: {
		{"anthelmintic", 3}, {"albendazole", 3}, {"mebendazole", 3},
		{"ivermectin", 3}, {"praziquantel", 3}, {"deworm", 3},
		{"worm", 1}, {"antiparasitic", 3}, {"permethrin", 2},
	},
	UmbrellaCardiovascular: {
		{"cardiovascular", 3}, {"amlodipine", 3}, {"atenolol", 3},
		{"lisinopril", 3}, {"enalapril", 3}, {"losartan", 3},
		{"atorvastatin", 3}, {"simvastatin", 3}, {"hypertension", 3},
		{"blood pressure", 2}, {"cardiac", 2}, {"heart", 1},
		{"furosemide", 3}, {"digoxin", 3}, {"warfarin", 3},
		{"clopidogrel", 3}, {"statin", 2}, {"nifedipine", 3},
		{"propranolol", 3}, {"hydrochlorothiazide", 3}, {"bisoprolol", 3},
	},
	UmbrellaAntidiabetics: {
		{"antidiabetic", 3}, {"metformin", 3}, {"insulin", 3},
		{"glibenclamide", 3}, {"glyburide", 3}, {"gliclazide", 3},
		{"glimepiride", 3}, {"sitagliptin", 3}, {"diabetes", 3},
		{"diabetic", 2}, {"glucose", 1}, {"empagliflozin", 3},
	},
	UmbrellaGastrointestinal: {
		{"antacid", 3}, {"omeprazole", 3}, {"pantoprazole", 3},
		{"esomeprazole", 3}, {"ranitidine", 3}, {"lansoprazole", 3},
		{"loperamide", 3}, {"ondansetron", 3}, {"domperidone", 3},
		{"metoclopramide", 3}, {"laxative", 3}, {"lactulose", 3},
		{"oral rehydration", 3}, {"ors", 2}, {"gastric", 2},
		{"ulcer", 2}, {"antiemetic", 3}, {"simethicone", 3},
		{"magnesia", 2}, {"alumina", 2}, {"bismuth", 2},
	},
	UmbrellaRespiratory: {
		{"salbutamol", 3}, {"albuterol", 3}, {"budesonide", 3},
		{"montelukast", 3}, {"theophylline", 3}, {"ambroxol", 3},
		{"bromhexine", 3}, {"asthma", 3}, {"bronchodilator", 3},
		{"expectorant", 3}, {"cough", 2}, {"mucolytic", 3},
		{"respiratory", 2}, {"ipratropium", 3}, {"guaifenesin", 3},
	},
	UmbrellaAllergy: {
		{"antihistamine", 3}, {"cetirizine", 3}, {"loratadine", 3},
		{"fexofenadine", 3}, {"chlorpheniramine", 3}, {"allergy", 3},
		{"allergic", 2}, {"antiallergic", 3}, {"desloratadine", 3},
		{"diphenhydramine", 3}, {"hay fever", 2},
	},
	UmbrellaDermatology: {
		{"dermatological", 3}, {"betamethasone", 3}, {"hydrocortisone", 2},
		{"calamine", 3}, {"benzoyl peroxide", 3}, {"acne", 3},
		{"eczema", 3}, {"psoriasis", 3}, {"dermatitis", 3},
		{"skin", 2}, {"emollient", 3}, {"sunscreen", 2},
		{"mupirocin", 3}, {"silver sulfadiazine", 3},
	},
	UmbrellaVitamins: {
		{"vitamin", 3}, {"multivitamin", 3}, {"supplement", 3},
		{"folic acid", 3}, {"ferrous", 3}, {"iron", 2}, {"calcium", 2},
		{"zinc", 2}, {"omega", 2}, {"cod liver", 2}, {"b complex", 3},
		{"ascorbic", 3}, {"cholecalciferol", 3}, {"tocopherol", 3},
		{"mineral", 2}, {"biotin", 3},
	},
	UmbrellaNeurology: {
		{"anticonvulsant", 3}, {"carbamazepine", 3}, {"phenytoin", 3},
		{"valproate", 3}, {"valproic", 3}, {"levetiracetam", 3},
		{"gabapentin", 3}, {"pregabalin", 3}, {"epilepsy", 3},
		{"seizure", 3}, {"migraine", 3}, {"sumatriptan", 3},
		{"levodopa", 3}, {"parkinson", 3}, {"neurological", 2},
	},
	UmbrellaPsychiatry: {
		{"antidepressant", 3}, {"fluoxetine", 3}, {"sertraline", 3},
		{"amitriptyline", 3}, {"escitalopram", 3}, {"antipsychotic", 3},
		{"haloperidol", 3}, {"olanzapine", 3}, {"risperidone", 3},
		{"diazepam", 3}, {"lorazepam", 3}, {"alprazolam", 3},
		{"anxiety", 2}, {"depression", 2}, {"sedative", 2},
		{"quetiapine", 3}, {"lithium", 2},
	},
	UmbrellaAnesthetics: {
		{"anesthetic", 3}, {"anaesthetic", 3}, {"lidocaine", 3},
		{"lignocaine", 3}, {"bupivacaine", 3}, {"ketamine", 3},
		{"propofol", 3}, {"halothane", 3}, {"sevoflurane", 3},
		{"procaine", 3},
	},
	UmbrellaEndocrine: {
		{"levothyroxine", 3}, {"thyroxine", 3}, {"thyroid", 3},
		{"prednisolone", 3}, {"prednisone", 3}, {"dexamethasone", 3},
		{"corticosteroid", 3}, {"hormone", 2}, {"testosterone", 3},
		{"estradiol", 3}, {"hydrocortisone", 2}, {"carbimazole", 3},
	},
	UmbrellaReproductive: {
		{"contraceptive", 3}, {"levonorgestrel", 3},
		{"ethinylestradiol", 3}, {"medroxyprogesterone", 3},
		{"oxytocin", 3}, {"misoprostol", 3}, {"clomiphene", 3},
		{"family planning", 3}, {"condom", 2}, {"progesterone", 3},
		{"sildenafil", 2},
	},
	UmbrellaOphthalmic: {
		{"ophthalmic", 3}, {"eye drop", 3}, {"eye drops", 3},
		{"timolol", 3}, {"latanoprost", 3}, {"glaucoma", 3},
		{"tropicamide", 3}, {"artificial tears", 3}, {"eye ointment", 3},
		{"conjunctivitis", 2}, {"tetrahydrozoline", 3},
	},
	UmbrellaENT: {
		{"ear drop", 3}, {"ear drops", 3}, {"otic", 3}, {"nasal", 2},
		{"xylometazoline", 3}, {"oxymetazoline", 3}, {"decongestant", 3},
		{"throat lozenge", 3}, {"sinusitis", 2}, {"otitis", 3},
		{"cerumen", 3}, {"saline nasal", 3},
	},
	UmbrellaMusculoskeletal: {
		{"muscle relaxant", 3}, {"baclofen", 3}, {"tizanidine", 3},
		{"chlorzoxazone", 3}, {"allopurinol", 3}, {"colchicine", 3},
		{"gout", 3}, {"arthritis", 2}, {"methocarbamol", 3},
		{"glucosamine", 3}, {"alendronate", 3}, {"osteoporosis", 3},
	},
	UmbrellaOncology: {
		{"chemotherapy", 3}, {"cytotoxic", 3}, {"methotrexate", 3},
		{"cyclophosphamide", 3}, {"tamoxifen", 3}, {"cisplatin", 3},
		{"doxorubicin", 3}, {"oncology", 3}, {"cancer", 2},
		{"imatinib", 3}, {"paclitaxel", 3},
	},
	UmbrellaVaccines: {
		{"vaccine", 3}, {"toxoid", 3}, {"immunoglobulin", 3},
		{"antiserum", 3}, {"antivenom", 3}, {"bcg", 3}, {"tetanus", 2},
		{"hepatitis b vaccine", 3}, {"measles", 2}, {"polio", 2},
		{"immunization", 3}, {"rabies", 2},
	},
}

// NonMedicineKeywords flags accessory/consumable vocabulary used to
// auto-infer a non-medicine product type from free text.
var NonMedicineKeywords = map[UmbrellaCategory][]string{
	CategoryMedicalSupplies: {
		"syringe", "needle", "gauze", "bandage", "plaster", "cotton wool",
		"glove", "gloves", "mask", "swab", "catheter", "cannula",
		"test strip", "test strips", "lancet", "dressing", "tape",
		"disinfectant", "antiseptic wipe", "sanitizer", "iv set",
		"infusion set", "urine bag", "specimen", "thermometer strip",
	},
	CategoryEquipment: {
		"thermometer", "stethoscope", "sphygmomanometer", "bp monitor",
		"blood pressure monitor", "glucometer", "nebulizer", "nebuliser",
		"oximeter", "wheelchair", "crutch", "crutches", "weighing scale",
		"otoscope", "machine", "analyzer", "analyser", "centrifuge",
		"microscope",
	},
}

// ChemicalKeywords marks rows as non-medicine chemicals/reagents when seen
// in descriptive text.
var ChemicalKeywords = []string{
	"reagent", "chlorine", "formalin", "methylated spirit",
	"hydrogen peroxide solution", "bleach", "detergent",
}

// IsMedicineUmbrella reports whether label is one of the 23 umbrellas.
func IsMedicineUmbrella(label string) bool {
	for _, u := range MedicineUmbrellas {
		if string(u) == label {
			return true
		}
	}
	return false
}

// IsNonMedicineCategory reports whether label is valid for non-medicine rows.
func IsNonMedicineCategory(label string) bool {
	for _, c := range NonMedicineCategories {
		if string(c) == label {
			return true
		}
	}
	return false
}
